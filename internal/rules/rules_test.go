package rules

import (
	"testing"

	"github.com/spigell/leadscore/internal/leads"
)

func completeLead() leads.Lead {
	return leads.Lead{
		Name:        "Ava Patel",
		Role:        "CEO",
		Company:     "FlowMetrics",
		Industry:    "SaaS",
		Location:    "Mumbai",
		LinkedinBio: "Founder building analytics tools",
	}
}

func TestRoleTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role   string
		points int
		reason string
	}{
		{role: "Director of Sales", points: 20, reason: "Role looks like decision-maker (+20)"},
		{role: "DIRECTOR", points: 20, reason: "Role looks like decision-maker (+20)"},
		{role: "Co-Founder", points: 20, reason: "Role looks like decision-maker (+20)"},
		{role: "Senior Engineer", points: 10, reason: "Role looks like influencer (+10)"},
		{role: "Team Lead", points: 10, reason: "Role looks like influencer (+10)"},
		{role: "Lead Product Manager", points: 20, reason: "Role looks like decision-maker (+20)"},
		{role: "Intern", points: 0, reason: ""},
		{role: "", points: 0, reason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()
			step := RoleTier().Apply(leads.Lead{Role: tt.role}, nil)
			if step.Points != tt.points || step.Reason != tt.reason {
				t.Fatalf("role %q: got (%d, %q), want (%d, %q)", tt.role, step.Points, step.Reason, tt.points, tt.reason)
			}
		})
	}
}

func TestIndustryMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		industry string
		useCases []string
		points   int
	}{
		{name: "exact ignores case", industry: "SaaS", useCases: []string{"B2B", "saas"}, points: 20},
		{name: "exact beats earlier adjacent", industry: "fintech", useCases: []string{"fintech software", "FinTech"}, points: 20},
		{name: "use case inside industry", industry: "B2B SaaS mid-market", useCases: []string{"saas"}, points: 10},
		{name: "industry inside use case", industry: "saas", useCases: []string{"B2B SaaS companies"}, points: 10},
		{name: "no overlap", industry: "Retail", useCases: []string{"SaaS"}, points: 0},
		{name: "empty industry", industry: "", useCases: []string{"SaaS", ""}, points: 0},
		{name: "empty use case is adjacent to anything", industry: "Retail", useCases: []string{""}, points: 10},
		{name: "no use cases", industry: "SaaS", useCases: nil, points: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			step := IndustryMatch().Apply(leads.Lead{Industry: tt.industry}, tt.useCases)
			if step.Points != tt.points {
				t.Fatalf("got %d points (%q), want %d", step.Points, step.Reason, tt.points)
			}
		})
	}
}

func TestCompleteness(t *testing.T) {
	lead := completeLead()
	if step := Completeness().Apply(lead, nil); step.Points != 10 {
		t.Fatalf("expected 10 points for complete lead, got %d", step.Points)
	}

	blanks := []func(*leads.Lead){
		func(l *leads.Lead) { l.Name = "" },
		func(l *leads.Lead) { l.Role = "" },
		func(l *leads.Lead) { l.Company = "" },
		func(l *leads.Lead) { l.Industry = "" },
		func(l *leads.Lead) { l.Location = "" },
		func(l *leads.Lead) { l.LinkedinBio = "" },
	}

	for i, blank := range blanks {
		l := completeLead()
		blank(&l)
		if step := Completeness().Apply(l, nil); step.Points != 0 {
			t.Fatalf("case %d: expected 0 points, got %d", i, step.Points)
		}
	}
}

func TestScoreJoinsReasonsInOrder(t *testing.T) {
	points, reason := Score(completeLead(), []string{"SaaS"})

	if points != 50 {
		t.Fatalf("expected 50 points, got %d", points)
	}

	want := "Role looks like decision-maker (+20); Industry exact match (+20); All fields present (+10)"
	if reason != want {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestScoreWithoutMatches(t *testing.T) {
	points, reason := Score(leads.Lead{Name: "Nobody"}, []string{"SaaS"})
	if points != 0 || reason != "" {
		t.Fatalf("expected no points and empty reason, got (%d, %q)", points, reason)
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	roles := []string{"", "CEO", "Senior Analyst", "Intern"}
	industries := []string{"", "SaaS", "B2B SaaS", "Retail"}
	fill := []bool{true, false}

	for _, role := range roles {
		for _, industry := range industries {
			for _, complete := range fill {
				lead := leads.Lead{Name: "x", Role: role, Industry: industry}
				if complete {
					lead.Company, lead.Location, lead.LinkedinBio = "c", "l", "b"
				}
				points, _ := Score(lead, []string{"saas", "b2b saas"})
				if points < 0 || points > MaxPoints {
					t.Fatalf("points %d out of range for %+v", points, lead)
				}
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	statuses := Default().Describe()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(statuses))
	}

	total := 0
	for _, status := range statuses {
		total += status.MaxPoints
	}
	if total != MaxPoints {
		t.Fatalf("expected max points to add up to %d, got %d", MaxPoints, total)
	}

	if statuses[0].Name != "role_tier" || statuses[1].Name != "industry_match" || statuses[2].Name != "completeness" {
		t.Fatalf("unexpected rule order: %+v", statuses)
	}
}
