package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	oai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var errBreakerOpen = errors.New("openai circuit breaker is open")

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig trips after five consecutive failures and probes again after 30s.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	}
}

// Breaker wraps a chat client with a circuit breaker so that a failing API is not called
// for every lead of a scoring run.
type Breaker struct {
	client ChatClient
	cb     *gobreaker.CircuitBreaker[oai.ChatCompletionResponse]
}

// NewBreaker creates a circuit breaker around the chat client.
func NewBreaker(client ChatClient, cfg *BreakerConfig, logger *zap.Logger) *Breaker {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "openai-chat",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
		IsSuccessful: func(err error) bool {
			return !ShouldTrip(err)
		},
	}

	return &Breaker{
		client: client,
		cb:     gobreaker.NewCircuitBreaker[oai.ChatCompletionResponse](settings),
	}
}

// CreateChatCompletion executes the call through the circuit breaker.
func (b *Breaker) CreateChatCompletion(ctx context.Context, req oai.ChatCompletionRequest) (oai.ChatCompletionResponse, error) {
	resp, err := b.cb.Execute(func() (oai.ChatCompletionResponse, error) {
		return b.client.CreateChatCompletion(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return resp, fmt.Errorf("%w: %w", errBreakerOpen, err)
	}
	return resp, err
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// ShouldTrip reports whether an error counts as a breaker failure.
// Rate limits and caller cancellations do not say anything about API health.
func ShouldTrip(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *oai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}
