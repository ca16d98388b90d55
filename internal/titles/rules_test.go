package titles

import (
	"testing"
)

func TestRulesExtendNoiseWord(t *testing.T) {
	input := "Frieren.SubsPlease.mkv"

	if got := CleanTitle(input, false, false); got != "Frieren SubsPlease" {
		t.Fatalf("default CleanTitle(%q) = %q, want %q", input, got, "Frieren SubsPlease")
	}

	c, err := NewCleaner(DefaultRules().Extend([]string{"SubsPlease"}, nil))
	if err != nil {
		t.Fatalf("NewCleaner failed: %v", err)
	}
	if got := c.CleanTitle(input, false, false); got != "Frieren" {
		t.Errorf("extended CleanTitle(%q) = %q, want %q", input, got, "Frieren")
	}
}

func TestRulesExtendEpisodeMarker(t *testing.T) {
	input := "Title OVA 2"

	c, err := NewCleaner(DefaultRules().Extend(nil, []string{`OVA\s*\d+`}))
	if err != nil {
		t.Fatalf("NewCleaner failed: %v", err)
	}
	if got := c.CleanTitle(input, false, false); got != "Title" {
		t.Errorf("extended CleanTitle(%q) = %q, want %q", input, got, "Title")
	}
}

func TestRulesExtendQuotesWords(t *testing.T) {
	// Regex metacharacters in a noise word must not break compilation
	_, err := NewCleaner(DefaultRules().Extend([]string{"C++", "(Dub)"}, nil))
	if err != nil {
		t.Errorf("NewCleaner with quoted words failed: %v", err)
	}
}

func TestRulesExtendDoesNotMutate(t *testing.T) {
	base := DefaultRules()
	tokens, markers := len(base.NoiseTokens), len(base.EpisodeMarkers)

	extended := base.Extend([]string{"one", " ", ""}, []string{"two"})

	if len(base.NoiseTokens) != tokens || len(base.EpisodeMarkers) != markers {
		t.Errorf("Extend mutated the receiver")
	}
	if len(extended.NoiseTokens) != tokens+1 {
		t.Errorf("Extend added %d noise tokens, want 1", len(extended.NoiseTokens)-tokens)
	}
	if len(extended.EpisodeMarkers) != markers+1 {
		t.Errorf("Extend added %d markers, want 1", len(extended.EpisodeMarkers)-markers)
	}
}

func TestNewCleanerRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name  string
		rules Rules
	}{
		{"empty", Rules{}},
		{"no markers", Rules{NoiseTokens: []string{"x"}}},
		{"bad marker", Rules{NoiseTokens: []string{"x"}, EpisodeMarkers: []string{"("}}},
		{"bad token", Rules{NoiseTokens: []string{"[a-"}, EpisodeMarkers: []string{`E\d+`}}},
	}

	for _, tt := range tests {
		if _, err := NewCleaner(tt.rules); err == nil {
			t.Errorf("NewCleaner(%s) succeeded, want error", tt.name)
		}
	}
}
