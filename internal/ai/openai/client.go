package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	oai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/ai"
)

const (
	providerName = "openai"
	defaultModel = oai.GPT4oMini
)

// ChatClient is the subset of the go-openai client used by the generator.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req oai.ChatCompletionRequest) (oai.ChatCompletionResponse, error)
}

// Config configures the OpenAI generator.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	// CircuitBreaker wraps chat calls in a breaker when set.
	CircuitBreaker *BreakerConfig
}

// Generator sends prompts to the OpenAI chat completions API.
type Generator struct {
	client ChatClient
	model  string
	logger *zap.Logger
}

// NewGenerator creates a generator backed by the go-openai client.
func NewGenerator(cfg Config, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ai.ErrNoCredential
	}

	clientCfg := oai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	var client ChatClient = oai.NewClientWithConfig(clientCfg)
	if cfg.CircuitBreaker != nil {
		client = NewBreaker(client, cfg.CircuitBreaker, logger)
	}

	return NewWithClient(client, cfg.Model, logger), nil
}

// NewWithClient creates a generator around an existing chat client.
func NewWithClient(client ChatClient, model string, logger *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, model: model, logger: logger}
}

// Generate sends the prompt as a single user message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model: g.model,
		Messages: []oai.ChatCompletionMessage{
			{Role: oai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   req.MaxOutputTokens,
		Temperature: temperature(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response with no choices")
	}

	g.logger.Debug("openai chat completion usage",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai returned empty message content")
	}

	return output, nil
}

func (g *Generator) Name() string { return providerName }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// go-openai drops a zero temperature through omitempty, which makes the API fall back to 1.
func temperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// ErrorType labels an error for metrics.
func ErrorType(err error) string {
	if err == nil {
		return "none"
	}

	var apiErr *oai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return "rate_limit"
		case apiErr.HTTPStatusCode >= 500:
			return "server_error"
		case apiErr.HTTPStatusCode >= 400:
			return "client_error"
		default:
			return "api_error"
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, errBreakerOpen):
		return "circuit_open"
	}

	return "unknown"
}
