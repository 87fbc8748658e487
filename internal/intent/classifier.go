package intent

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/ai"
	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultTimeout         = 20 * time.Second
	defaultMaxOutputTokens = 150
	defaultMaxLogLength    = 200
)

// Source tells which path produced a classification.
type Source string

const (
	// SourceMock is used when no generator is configured.
	SourceMock Source = "mock"
	// SourceModel means the model answered with the expected JSON object.
	SourceModel Source = "model"
	// SourceKeyword means the label was recovered by scanning the raw answer.
	SourceKeyword Source = "keyword"
	// SourceFallback means the call failed and the default label was used.
	SourceFallback Source = "fallback"
)

// Classification is the AI layer outcome for a single lead.
type Classification struct {
	Intent    leads.Intent
	Points    int
	Reasoning string
	Source    Source
}

// Options tune the classifier. Zero values fall back to defaults.
type Options struct {
	Timeout         time.Duration
	MaxOutputTokens int
	MaxLogLength    int
	Logger          *zap.Logger
	Metrics         *metrics.Recorder
}

// Classifier asks a language model for the buying intent of a lead.
type Classifier struct {
	generator       ai.Generator
	timeout         time.Duration
	maxOutputTokens int
	maxLogLen       int
	logger          *zap.Logger
	metrics         *metrics.Recorder
}

// New creates a classifier. A nil generator puts the classifier in mock mode.
func New(generator ai.Generator, opts Options) *Classifier {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = defaultMaxOutputTokens
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	log := opts.Logger
	if generator != nil {
		log = logger.WithCommonFields(log, generator.Name(), generator.Model())
	} else {
		log = logger.WithFields(log)
	}

	return &Classifier{
		generator:       generator,
		timeout:         opts.Timeout,
		maxOutputTokens: opts.MaxOutputTokens,
		maxLogLen:       opts.MaxLogLength,
		logger:          log,
		metrics:         opts.Metrics,
	}
}

// Mode returns "mock" when no generator is configured and "live" otherwise.
func (c *Classifier) Mode() string {
	if c.generator == nil {
		return "mock"
	}
	return "live"
}

// Provider returns the configured provider name, empty in mock mode.
func (c *Classifier) Provider() string {
	if c.generator == nil {
		return ""
	}
	return c.generator.Name()
}

// Model returns the configured model, empty in mock mode.
func (c *Classifier) Model() string {
	if c.generator == nil {
		return ""
	}
	return c.generator.Model()
}

// Classify never fails: every error path degrades to a Medium classification.
func (c *Classifier) Classify(ctx context.Context, lead leads.Lead, offer leads.Offer) Classification {
	var result Classification
	if c.generator == nil {
		result = mock(lead)
	} else {
		result = c.settle(c.ask(ctx, lead, offer))
	}

	c.metrics.RecordClassification(string(result.Source), string(result.Intent))
	return result
}

func mock(lead leads.Lead) Classification {
	return Classification{
		Intent:    leads.IntentMedium,
		Points:    leads.IntentMedium.Points(),
		Reasoning: fmt.Sprintf("Mock: Based on role %s and industry %s, intent is Medium.", lead.Role, lead.Industry),
		Source:    SourceMock,
	}
}

// reply is the outcome of a single generator call: either raw text or the failure cause.
type reply struct {
	raw string
	err error
}

func (c *Classifier) ask(ctx context.Context, lead leads.Lead, offer leads.Offer) reply {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := BuildPrompt(lead, offer)

	log := c.logger.With(logger.Lead(lead.Name, lead.Company)...)

	log.Debug("intent classification request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.Generate(ctx, ai.Request{
		Prompt:          prompt,
		MaxOutputTokens: c.maxOutputTokens,
	})
	if err != nil {
		log.Warn("intent classification failed, defaulting to Medium", zap.Error(err))
		return reply{err: err}
	}

	log.Debug("intent classification response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	return reply{raw: raw}
}

func (c *Classifier) settle(r reply) Classification {
	if r.err != nil {
		return Classification{
			Intent:    leads.IntentMedium,
			Points:    leads.IntentMedium.Points(),
			Reasoning: fmt.Sprintf("Error contacting %s: %v. Defaulting to Medium.", displayName(c.generator.Name()), r.err),
			Source:    SourceFallback,
		}
	}

	if answer, ok := parseAnswer(r.raw); ok {
		label, _ := leads.ParseIntent(answer.intent)
		return Classification{
			Intent:    label,
			Points:    label.Points(),
			Reasoning: answer.reasoning,
			Source:    SourceModel,
		}
	}

	label := scanKeywords(r.raw)
	return Classification{
		Intent:    label,
		Points:    label.Points(),
		Reasoning: r.raw,
		Source:    SourceKeyword,
	}
}

// BuildPrompt renders the classification prompt for a lead and offer.
func BuildPrompt(lead leads.Lead, offer leads.Offer) string {
	replacer := strings.NewReplacer(
		"{{OFFER_NAME}}", offer.Name,
		"{{VALUE_PROPS}}", listOrNone(offer.ValueProps),
		"{{IDEAL_USE_CASES}}", listOrNone(offer.IdealUseCases),
		"{{LEAD_NAME}}", lead.Name,
		"{{LEAD_ROLE}}", lead.Role,
		"{{LEAD_COMPANY}}", lead.Company,
		"{{LEAD_INDUSTRY}}", lead.Industry,
		"{{LEAD_LOCATION}}", lead.Location,
		"{{LEAD_LINKEDIN_BIO}}", lead.LinkedinBio,
	)
	return replacer.Replace(promptTemplate)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func displayName(provider string) string {
	switch provider {
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	default:
		return provider
	}
}
