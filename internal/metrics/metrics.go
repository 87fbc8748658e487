package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker/v2"
)

var (
	leadsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadscore_leads_ingested_total",
			Help: "Total number of leads imported from CSV uploads",
		},
	)

	runSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadscore_run_size",
			Help:    "Number of leads processed per scoring run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadscore_run_duration_seconds",
			Help:    "Duration of scoring runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	leadsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadscore_leads_scored_total",
			Help: "Total number of leads scored",
		},
	)

	scoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadscore_score_distribution",
			Help:    "Distribution of final scores (0-100)",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscore_classifications_total",
			Help: "Intent classifications by source and label",
		},
		[]string{"source", "intent"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadscore_ai_request_duration_seconds",
			Help:    "Duration of language model calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)

	aiErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscore_ai_errors_total",
			Help: "Language model failures by provider and type",
		},
		[]string{"provider", "error_type"},
	)

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leadscore_circuit_breaker_state",
			Help: "Current state of circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	circuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscore_circuit_breaker_trips_total",
			Help: "Total number of circuit breaker trips",
		},
		[]string{"name"},
	)
)

// Recorder records application metrics. A nil or disabled recorder is a no-op.
type Recorder struct {
	enabled bool
}

// NewRecorder creates a new metrics recorder.
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled}
}

func (r *Recorder) on() bool {
	return r != nil && r.enabled
}

func (r *Recorder) RecordLeadsIngested(count int) {
	if !r.on() {
		return
	}
	leadsIngested.Add(float64(count))
}

// RecordRun records the size and duration of a completed scoring run.
func (r *Recorder) RecordRun(size int, seconds float64) {
	if !r.on() {
		return
	}
	runSize.Observe(float64(size))
	runDuration.Observe(seconds)
}

// RecordScore records a single final score.
func (r *Recorder) RecordScore(score int) {
	if !r.on() {
		return
	}
	leadsScored.Inc()
	scoreDistribution.Observe(float64(score))
}

// RecordClassification records which path produced an intent label.
func (r *Recorder) RecordClassification(source, intent string) {
	if !r.on() {
		return
	}
	classifications.WithLabelValues(source, intent).Inc()
}

func (r *Recorder) RecordAIRequest(provider, model string, seconds float64) {
	if !r.on() {
		return
	}
	aiRequestDuration.WithLabelValues(provider, model).Observe(seconds)
}

func (r *Recorder) RecordAIError(provider, errorType string) {
	if !r.on() {
		return
	}
	aiErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordCircuitBreakerState mirrors a breaker transition into the state gauge and trip counter.
func (r *Recorder) RecordCircuitBreakerState(name string, to gobreaker.State) {
	if !r.on() {
		return
	}
	circuitBreakerState.WithLabelValues(name).Set(float64(to))
	if to == gobreaker.StateOpen {
		circuitBreakerTrips.WithLabelValues(name).Inc()
	}
}

// Handler returns an HTTP handler for Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
