package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"civic_ingest/internal/model"
)

func mustRules(t *testing.T, include, exclude []string) []Rule {
	t.Helper()
	rules, err := ParseRules(include, exclude)
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	return rules
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		include []string
		exclude []string
		want    bool
	}{
		{
			name: "no rules passes everything",
			text: "anything at all",
			want: true,
		},
		{
			name:    "include word matches",
			text:    "Pothole on MG Road near the metro",
			include: []string{"pothole"},
			want:    true,
		},
		{
			name:    "include word no match",
			text:    "Garbage not collected for three days",
			include: []string{"pothole"},
			want:    false,
		},
		{
			name:    "include is case insensitive",
			text:    "POTHOLE everywhere",
			include: []string{"pothole"},
			want:    true,
		},
		{
			name:    "includes are ORed",
			text:    "Garbage not collected",
			include: []string{"pothole", "garbage"},
			want:    true,
		},
		{
			name:    "exclude word blocks match",
			text:    "Sponsored: new road opening",
			exclude: []string{"sponsored"},
			want:    false,
		},
		{
			name:    "exclude wins over include",
			text:    "Sponsored pothole repair service",
			include: []string{"pothole"},
			exclude: []string{"sponsored"},
			want:    false,
		},
		{
			name:    "regex include",
			text:    "Sector 14 water supply cut",
			include: []string{"re:sector\\s+\\d+"},
			want:    true,
		},
		{
			name:    "regex exclude",
			text:    "Win a prize today",
			exclude: []string{"re:^win\\b"},
			want:    false,
		},
		{
			name:    "blank values are ignored",
			text:    "Broken streetlight",
			include: []string{"  ", ""},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustRules(t, tt.include, tt.exclude)
			got := Match(model.RawPost{Text: tt.text}, rules)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	posts := []model.RawPost{
		{ID: "a", Text: "pothole on ring road"},
		{ID: "b", Text: "sponsored pothole fix"},
		{ID: "c", Text: "garbage pile"},
	}
	rules := mustRules(t, []string{"pothole"}, []string{"sponsored"})

	var ids []string
	for _, p := range Apply(posts, rules) {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"a"}, ids); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(len(posts), len(Apply(posts, nil))); diff != "" {
		t.Errorf("Apply() without rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRulesInvalidRegex(t *testing.T) {
	if _, err := ParseRules([]string{"re:[unclosed"}, nil); err == nil {
		t.Error("expected error for invalid regex")
	}
	if err := ValidateRegex("(ok|fine)"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateRegex("("); err == nil {
		t.Error("expected error for invalid regex")
	}
}
