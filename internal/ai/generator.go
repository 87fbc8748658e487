package ai

import (
	"context"
	"errors"
)

// ErrNoCredential is returned by provider constructors when no API key is configured.
// Callers treat it as a request to run without an external service.
var ErrNoCredential = errors.New("no api credential configured")

// Request is a single text generation call.
type Request struct {
	Prompt          string
	MaxOutputTokens int
	Temperature     float32
}

// Generator sends a prompt to an external text generation service and returns its text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	Model() string
}
