package scoring

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/leadscore/internal/intent"
	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/rules"
)

const defaultConcurrency = 4

// Classifier is the AI layer of the pipeline.
type Classifier interface {
	Classify(ctx context.Context, lead leads.Lead, offer leads.Offer) intent.Classification
}

// Pipeline combines the rule layer and the intent classifier.
type Pipeline struct {
	rules       *rules.Scorer
	classifier  Classifier
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Recorder
	now         func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = recorder
	}
}

// WithRules replaces the default rule set.
func WithRules(scorer *rules.Scorer) Option {
	return func(p *Pipeline) {
		if scorer != nil {
			p.rules = scorer
		}
	}
}

func New(classifier Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		rules:       rules.Default(),
		classifier:  classifier,
		concurrency: defaultConcurrency,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScoreLead runs the rule layer then the classifier and merges both.
func (p *Pipeline) ScoreLead(ctx context.Context, lead leads.Lead, offer leads.Offer) leads.ScoredLead {
	ruled := p.rules.Score(lead, offer.IdealUseCases)
	classified := p.classifier.Classify(ctx, lead, offer)

	scored := leads.ScoredLead{
		Lead:       lead,
		Intent:     classified.Intent,
		Score:      ruled.Points + classified.Points,
		Reasoning:  MergeReasoning(ruled.Reason(), classified.Reasoning),
		RulePoints: ruled.Points,
		AIPoints:   classified.Points,
	}

	p.metrics.RecordScore(scored.Score)
	fields := append(logger.Lead(lead.Name, lead.Company),
		zap.Int("rule_points", ruled.Points),
		zap.Int("ai_points", classified.Points),
		zap.String("intent", string(classified.Intent)),
		zap.String("intent_source", string(classified.Source)),
	)
	p.logger.Debug("lead scored", fields...)

	return scored
}

// Run scores every lead and returns the results in input order.
func (p *Pipeline) Run(ctx context.Context, batch []leads.Lead, offer leads.Offer) *leads.ResultSet {
	start := p.now()
	results := &leads.ResultSet{
		Items:    make([]leads.ScoredLead, len(batch)),
		Offer:    offer.Name,
		ScoredAt: start,
	}
	if len(batch) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, lead := range batch {
		g.Go(func() error {
			results.Items[i] = p.ScoreLead(gctx, lead, offer)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	p.metrics.RecordRun(len(batch), elapsed.Seconds())

	counts := results.CountByIntent()
	p.logger.Info("scoring run finished",
		zap.String(logger.FieldOffer, offer.Name),
		zap.Int("leads", len(batch)),
		zap.Int("high", counts[leads.IntentHigh]),
		zap.Int("medium", counts[leads.IntentMedium]),
		zap.Int("low", counts[leads.IntentLow]),
		zap.Duration("elapsed", elapsed),
	)

	return results
}

// MergeReasoning joins the rule and AI explanations.
func MergeReasoning(ruleReason, aiReason string) string {
	return strings.Trim(ruleReason+"; AI: "+aiReason, "; ")
}
