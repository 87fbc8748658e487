package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/ai"
	"github.com/spigell/leadscore/internal/ai/provider"
	"github.com/spigell/leadscore/internal/intent"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/scoring"
	"github.com/spigell/leadscore/internal/secrets"
)

// newClassifier builds the intent classifier. A missing credential is not an error:
// the classifier then runs in mock mode.
func newClassifier(ctx context.Context, cfg *AIConfig, logger *zap.Logger, recorder *metrics.Recorder) (*intent.Classifier, error) {
	opts := intent.Options{
		Timeout:         cfg.Timeout,
		MaxOutputTokens: cfg.MaxOutputTokens,
		MaxLogLength:    cfg.MaxLogLength,
		Logger:          logger,
		Metrics:         recorder,
	}

	providerCfg, err := resolveProvider(cfg)
	if errors.Is(err, secrets.ErrNotConfigured) {
		logger.Warn("no api key configured, intent classification runs in mock mode",
			zap.String("provider", providerCfg.Provider),
			zap.String("hint", "set OPENAI_API_KEY or GEMINI_API_KEY, or ai.<provider>.api-key-file in the configuration file"),
		)
		return intent.New(nil, opts), nil
	}
	if err != nil {
		return nil, err
	}

	generator, err := provider.New(ctx, providerCfg, logger, recorder)
	if errors.Is(err, ai.ErrNoCredential) {
		return intent.New(nil, opts), nil
	}
	if err != nil {
		return nil, fmt.Errorf("building %s generator: %w", providerCfg.Provider, err)
	}

	logger.Info("intent classification enabled",
		zap.String("provider", generator.Name()),
		zap.String("model", generator.Model()),
	)

	return intent.New(generator, opts), nil
}

func resolveProvider(cfg *AIConfig) (provider.Config, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = provider.OpenAI
	}

	out := provider.Config{Provider: name}

	var src secrets.Source
	switch name {
	case provider.OpenAI:
		src = secrets.Source{Name: "openai api key", Value: cfg.OpenAI.APIKey, File: cfg.OpenAI.APIKeyFile}
		out.Model = cfg.OpenAI.Model
		out.BaseURL = cfg.OpenAI.BaseURL
		out.CircuitBreaker = cfg.OpenAI.CircuitBreaker
	case provider.Gemini:
		src = secrets.Source{Name: "gemini api key", Value: cfg.Gemini.APIKey, File: cfg.Gemini.APIKeyFile}
		out.Model = cfg.Gemini.Model
	default:
		return out, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	key, err := secrets.Load(src)
	if err != nil {
		return out, err
	}
	out.APIKey = key

	return out, nil
}

func newPipeline(classifier *intent.Classifier, cfg *Config, logger *zap.Logger, recorder *metrics.Recorder) *scoring.Pipeline {
	return scoring.New(classifier,
		scoring.WithConcurrency(cfg.Scoring.Concurrency),
		scoring.WithLogger(logger),
		scoring.WithMetrics(recorder),
	)
}
