package intent

import (
	"encoding/json"
	"strings"

	"github.com/spigell/leadscore/internal/leads"
)

// answerSchema is the object the prompt asks the model to return.
type answerSchema struct {
	Intent    *string `json:"intent"`
	Reasoning *string `json:"reasoning"`
}

type answer struct {
	intent    string
	reasoning string
}

// parseAnswer decodes the outermost {...} span of raw against answerSchema.
// A missing intent defaults to Medium and a missing reasoning to the raw text.
func parseAnswer(raw string) (answer, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return answer{}, false
	}

	var schema answerSchema
	if err := json.Unmarshal([]byte(raw[start:end+1]), &schema); err != nil {
		return answer{}, false
	}

	result := answer{intent: string(leads.IntentMedium), reasoning: raw}
	if schema.Intent != nil {
		result.intent = *schema.Intent
	}
	if schema.Reasoning != nil {
		result.reasoning = *schema.Reasoning
	}
	return result, true
}

// scanKeywords guesses the label from free text: "high" wins over "low".
func scanKeywords(raw string) leads.Intent {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "high"):
		return leads.IntentHigh
	case strings.Contains(lower, "low"):
		return leads.IntentLow
	default:
		return leads.IntentMedium
	}
}
