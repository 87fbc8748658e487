package rules

import (
	"strings"

	"github.com/spigell/leadscore/internal/leads"
)

// MaxPoints is the ceiling of the rule layer.
const MaxPoints = 50

var (
	decisionMakerKeywords = []string{"ceo", "founder", "head", "vp", "director", "chief", "owner", "manager"}
	influencerKeywords    = []string{"lead", "senior", "principal", "influencer", "analyst", "specialist"}
)

// Rule is a single deterministic scoring step.
type Rule interface {
	Name() string
	MaxPoints() int
	Apply(lead leads.Lead, idealUseCases []string) Step
}

// Step describes what a rule contributed for a single lead.
type Step struct {
	Points int
	Reason string
}

// Status describes a configured rule.
type Status struct {
	Name      string `json:"name"`
	MaxPoints int    `json:"max_points"`
}

// Result is the outcome of running every rule over a lead.
type Result struct {
	Points  int
	Reasons []string
}

// Reason joins the contributing reasons in the order the rules ran.
func (r Result) Reason() string {
	return strings.Join(r.Reasons, "; ")
}

// Scorer runs rules in order and accumulates their points.
type Scorer struct {
	rules []Rule
}

// New creates a scorer from the provided rules. Order matters for the joined reason.
func New(rules ...Rule) *Scorer {
	return &Scorer{rules: rules}
}

// Default returns the role, industry and completeness rules.
func Default() *Scorer {
	return New(RoleTier(), IndustryMatch(), Completeness())
}

// Score applies every rule to the lead.
func (s *Scorer) Score(lead leads.Lead, idealUseCases []string) Result {
	var result Result
	for _, rule := range s.rules {
		step := rule.Apply(lead, idealUseCases)
		if step.Points == 0 && step.Reason == "" {
			continue
		}
		result.Points += step.Points
		if step.Reason != "" {
			result.Reasons = append(result.Reasons, step.Reason)
		}
	}
	return result
}

// Describe returns status entries for the configured rules.
func (s *Scorer) Describe() []Status {
	statuses := make([]Status, 0, len(s.rules))
	for _, rule := range s.rules {
		statuses = append(statuses, Status{Name: rule.Name(), MaxPoints: rule.MaxPoints()})
	}
	return statuses
}

// Score runs the default rules.
func Score(lead leads.Lead, idealUseCases []string) (int, string) {
	result := Default().Score(lead, idealUseCases)
	return result.Points, result.Reason()
}

type roleTierRule struct{}

// RoleTier awards points to decision makers first and influencers second.
func RoleTier() Rule { return roleTierRule{} }

func (roleTierRule) Name() string { return "role_tier" }

func (roleTierRule) MaxPoints() int { return 20 }

func (roleTierRule) Apply(lead leads.Lead, _ []string) Step {
	role := strings.ToLower(lead.Role)
	switch {
	case containsAny(role, decisionMakerKeywords):
		return Step{Points: 20, Reason: "Role looks like decision-maker (+20)"}
	case containsAny(role, influencerKeywords):
		return Step{Points: 10, Reason: "Role looks like influencer (+10)"}
	default:
		return Step{}
	}
}

type industryMatchRule struct{}

// IndustryMatch compares the lead industry with the offer's ideal use cases.
// An exact match wins over the symmetric substring ("adjacent") match.
func IndustryMatch() Rule { return industryMatchRule{} }

func (industryMatchRule) Name() string { return "industry_match" }

func (industryMatchRule) MaxPoints() int { return 20 }

func (industryMatchRule) Apply(lead leads.Lead, idealUseCases []string) Step {
	industry := strings.ToLower(lead.Industry)
	if industry == "" {
		return Step{}
	}

	for _, useCase := range idealUseCases {
		if strings.ToLower(useCase) == industry {
			return Step{Points: 20, Reason: "Industry exact match (+20)"}
		}
	}

	for _, useCase := range idealUseCases {
		useCase = strings.ToLower(useCase)
		if strings.Contains(industry, useCase) || strings.Contains(useCase, industry) {
			return Step{Points: 10, Reason: "Industry adjacent (+10)"}
		}
	}

	return Step{}
}

type completenessRule struct{}

// Completeness rewards leads with every field populated.
func Completeness() Rule { return completenessRule{} }

func (completenessRule) Name() string { return "completeness" }

func (completenessRule) MaxPoints() int { return 10 }

func (completenessRule) Apply(lead leads.Lead, _ []string) Step {
	if !lead.Complete() {
		return Step{}
	}
	return Step{Points: 10, Reason: "All fields present (+10)"}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
