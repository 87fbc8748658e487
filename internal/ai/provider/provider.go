package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/ai"
	"github.com/spigell/leadscore/internal/ai/gemini"
	"github.com/spigell/leadscore/internal/ai/openai"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/metrics"
)

const (
	OpenAI = "openai"
	Gemini = "gemini"
)

// Config selects and configures the language model backend.
type Config struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	CircuitBreaker bool
	HTTPClient     *http.Client
}

// New builds the generator for the configured provider. It returns ai.ErrNoCredential
// when no API key is available so callers can fall back to mock classification.
func New(ctx context.Context, cfg Config, log *zap.Logger, recorder *metrics.Recorder) (ai.Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = OpenAI
	}

	var (
		gen       ai.Generator
		errorType func(error) string
	)

	switch name {
	case OpenAI:
		var breaker *openai.BreakerConfig
		if cfg.CircuitBreaker {
			breaker = openai.DefaultBreakerConfig()
			breaker.OnStateChange = func(name string, _, to gobreaker.State) {
				recorder.RecordCircuitBreakerState(name, to)
			}
		}

		g, err := openai.NewGenerator(openai.Config{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			HTTPClient:     cfg.HTTPClient,
			CircuitBreaker: breaker,
		}, logger.WithCommonFields(log, OpenAI, cfg.Model))
		if err != nil {
			return nil, err
		}
		gen, errorType = g, openai.ErrorType
	case Gemini:
		g, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			HTTPClient: cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		gen, errorType = g, gemini.ErrorType
	default:
		return nil, fmt.Errorf("unknown ai provider %q (expected %s or %s)", cfg.Provider, OpenAI, Gemini)
	}

	return &instrumented{Generator: gen, recorder: recorder, errorType: errorType}, nil
}

type instrumented struct {
	ai.Generator
	recorder  *metrics.Recorder
	errorType func(error) string
}

func (i *instrumented) Generate(ctx context.Context, req ai.Request) (string, error) {
	start := time.Now()
	out, err := i.Generator.Generate(ctx, req)
	i.recorder.RecordAIRequest(i.Name(), i.Model(), time.Since(start).Seconds())
	if err != nil {
		i.recorder.RecordAIError(i.Name(), i.errorType(err))
	}
	return out, err
}
