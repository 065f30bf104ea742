package menu

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mixed case",
			input:    "Lobster Tail",
			expected: "lobster tail",
		},
		{
			name:     "multiple spaces",
			input:    "FILET   Mignon",
			expected: "filet mignon",
		},
		{
			name:     "hyphenated key",
			input:    "lobster-tail",
			expected: "lobster tail",
		},
		{
			name:     "special characters",
			input:    "Filet Mignon (+$5)",
			expected: "filet mignon 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalize(tt.input)
			if result != tt.expected {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	m := NewMatcher(MustDefault())

	tests := []struct {
		input  string
		status MatchStatus
		value  string
	}{
		{"chicken", Matched, "chicken"},
		{"Lobster Tail", Matched, "lobster-tail"},
		{"lobster-tail", Matched, "lobster-tail"},
		{"Filet Mignon (+$5)", Matched, "filet-mignon"},
		{"filet", Matched, "filet-mignon"},
		{"tofu", Matched, "vegetable"},
		{"prawns", Matched, "shrimp"},
		{"grilled fish", Matched, "salmon"},
		{"pizza", Unmatched, ""},
		{"", Unmatched, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := m.Match(tt.input)
			if res.Status != tt.status {
				t.Fatalf("Match(%q) status = %v, want %v", tt.input, res.Status, tt.status)
			}
			if tt.status != Matched {
				return
			}
			if res.Option == nil || res.Option.Value != tt.value {
				t.Errorf("Match(%q) = %+v, want %q", tt.input, res.Option, tt.value)
			}
		})
	}
}

func TestMatchAmbiguous(t *testing.T) {
	m := NewMatcher(MustDefault())

	res := m.Match("lobster steak")
	if res.Status != Ambiguous {
		t.Fatalf("status = %v, want Ambiguous", res.Status)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(res.Candidates))
	}
	got := map[string]bool{}
	for _, c := range res.Candidates {
		got[c.Value] = true
	}
	if !got["steak"] || !got["lobster-tail"] {
		t.Errorf("candidates = %v, want steak and lobster-tail", got)
	}
}

func TestMatchStatusString(t *testing.T) {
	if Matched.String() != "Matched" || Ambiguous.String() != "Ambiguous" || Unmatched.String() != "Unmatched" {
		t.Error("unexpected status names")
	}
	if MatchStatus(42).String() != "Unknown" {
		t.Error("out-of-range status should be Unknown")
	}
}
