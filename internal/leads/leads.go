package leads

import (
	"strings"
	"time"
)

// Intent is the buying-readiness label assigned by the classifier layer.
type Intent string

const (
	IntentHigh   Intent = "High"
	IntentMedium Intent = "Medium"
	IntentLow    Intent = "Low"
)

// ParseIntent maps a free-form label onto a known intent.
// Unknown labels are reported as Medium with ok set to false.
func ParseIntent(raw string) (Intent, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return IntentHigh, true
	case "medium":
		return IntentMedium, true
	case "low":
		return IntentLow, true
	default:
		return IntentMedium, false
	}
}

// Points returns the AI layer contribution for the intent.
func (i Intent) Points() int {
	switch i {
	case IntentHigh:
		return 50
	case IntentLow:
		return 10
	default:
		return 30
	}
}

// Offer is the product description and ideal customer profile used as scoring context.
type Offer struct {
	Name          string   `json:"name" mapstructure:"name"`
	ValueProps    []string `json:"value_props" mapstructure:"value_props"`
	IdealUseCases []string `json:"ideal_use_cases" mapstructure:"ideal_use_cases"`
}

// Lead is a single prospect row. Identity is its position in the ingestion batch.
type Lead struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	LinkedinBio string `json:"linkedin_bio"`
}

// Complete reports whether every lead field is populated.
func (l Lead) Complete() bool {
	for _, v := range []string{l.Name, l.Role, l.Company, l.Industry, l.Location, l.LinkedinBio} {
		if v == "" {
			return false
		}
	}
	return true
}

// ScoredLead is a lead with its merged score and explanation.
type ScoredLead struct {
	Lead
	Intent     Intent `json:"intent"`
	Score      int    `json:"score"`
	Reasoning  string `json:"reasoning"`
	RulePoints int    `json:"rule_points"`
	AIPoints   int    `json:"ai_points"`
}

// ResultSet is the ordered outcome of the most recent scoring run.
type ResultSet struct {
	Items    []ScoredLead
	Offer    string
	ScoredAt time.Time
}

func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// CountByIntent returns how many leads landed in each intent bucket.
func (r *ResultSet) CountByIntent() map[Intent]int {
	counts := map[Intent]int{IntentHigh: 0, IntentMedium: 0, IntentLow: 0}
	if r == nil {
		return counts
	}
	for _, item := range r.Items {
		counts[item.Intent]++
	}
	return counts
}
