package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux registers every route on a fresh mux.
func NewMux(d Deps) *http.ServeMux {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	hh := HealthHandler{Store: d.Store, Classifier: d.Classifier}
	mux.HandleFunc("GET /{$}", hh.Root)
	mux.HandleFunc("GET /healthz", hh.Health)

	oh := OfferHandler{Store: d.Store, Logger: d.Logger}
	mux.HandleFunc("POST /offer", oh.Save)

	lh := LeadsHandler{Store: d.Store, Logger: d.Logger, Metrics: d.Metrics, MaxUploadBytes: d.MaxUploadBytes}
	mux.HandleFunc("POST /leads/upload", lh.Upload)

	sh := ScoringHandler{Store: d.Store, Run: d.Run, Logger: d.Logger}
	mux.HandleFunc("POST /score", sh.Score)
	mux.HandleFunc("GET /results", sh.Results)
	mux.HandleFunc("GET /results/export", sh.Export)
	mux.HandleFunc("POST /reset", sh.Reset)

	if d.MetricsHandler != nil {
		mux.Handle("GET /metrics", d.MetricsHandler)
	}

	return mux
}

// NewHandler returns the mux wrapped in request id, recovery and access log middleware.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return Chain(NewMux(d), RequestID, Recover(d.Logger), AccessLog(d.Logger))
}
