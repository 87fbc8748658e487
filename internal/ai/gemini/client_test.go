package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"google.golang.org/genai"

	"github.com/spigell/leadscore/internal/ai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

type modelCall struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt string
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		prompt = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, modelCall{model: model, prompt: prompt, config: config})

	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{APIKey: " "}); !errors.Is(err, ai.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestGenerateJoinsParts(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"intent":"Low",`, "  ", `"reasoning":"no budget"}`)}
	g := newWithModels(models, "")

	out, err := g.Generate(context.Background(), ai.Request{Prompt: " classify ", MaxOutputTokens: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "{\"intent\":\"Low\",\n\"reasoning\":\"no budget\"}" {
		t.Fatalf("unexpected output %q", out)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != defaultModel || call.prompt != "classify" {
		t.Fatalf("unexpected call: %+v", call)
	}

	if call.config == nil || call.config.Temperature == nil || *call.config.Temperature != 0 {
		t.Fatalf("expected explicit zero temperature, got %+v", call.config)
	}

	if call.config.MaxOutputTokens != 150 {
		t.Fatalf("expected max output tokens 150, got %d", call.config.MaxOutputTokens)
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		models   *fakeModels
		prompt   string
		wantType string
	}{
		{
			name:     "api error",
			models:   &fakeModels{err: genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}},
			prompt:   "hi",
			wantType: "rate_limit",
		},
		{
			name:     "empty response",
			models:   &fakeModels{resp: textResponse("  ")},
			prompt:   "hi",
			wantType: "unknown",
		},
		{
			name:     "empty prompt",
			models:   &fakeModels{resp: textResponse("ok")},
			prompt:   "   ",
			wantType: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newWithModels(tt.models, "gemini-pro")
			_, err := g.Generate(context.Background(), ai.Request{Prompt: tt.prompt})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ErrorType(err); got != tt.wantType {
				t.Fatalf("expected error type %q, got %q", tt.wantType, got)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	g := newWithModels(&fakeModels{}, "gemini-pro")
	if g.Name() != "gemini" || g.Model() != "gemini-pro" {
		t.Fatalf("unexpected identity %s/%s", g.Name(), g.Model())
	}

	var nilGen *Generator
	if nilGen.Model() != "" {
		t.Fatalf("expected empty model for nil generator")
	}
}
