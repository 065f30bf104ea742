package menu

import (
	"strings"
	"unicode"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Option     *Option  // when Matched
	Candidates []Option // when Ambiguous
}

// Matcher resolves free text like "Lobster Tail" or "filet" to catalog options.
type Matcher struct {
	options  []Option
	exact    map[string]int
	keywords []map[string]bool // pre-tokenized keywords per option
}

const (
	valueWeight   = 3
	keywordWeight = 1
)

// NewMatcher pre-tokenizes the catalog's values and keywords.
func NewMatcher(c *Catalog) *Matcher {
	opts := c.Options()
	m := &Matcher{
		options:  opts,
		exact:    make(map[string]int, len(opts)),
		keywords: make([]map[string]bool, len(opts)),
	}
	for i, o := range opts {
		m.exact[normalize(o.Value)] = i
		kw := make(map[string]bool)
		for _, k := range o.Keywords {
			for _, tok := range tokenize(normalize(k)) {
				kw[tok] = true
			}
		}
		m.keywords[i] = kw
	}
	return m
}

// Match resolves text against the catalog. An exact value ("lobster-tail",
// "Lobster Tail") always wins; otherwise keywords are scored and a tie is
// reported as Ambiguous.
func (m *Matcher) Match(text string) MatchResult {
	normalized := normalize(text)
	if normalized == "" {
		return MatchResult{Status: Unmatched}
	}
	if i, ok := m.exact[normalized]; ok {
		return MatchResult{Status: Matched, Option: &m.options[i]}
	}

	inputTokens := make(map[string]bool)
	for _, tok := range tokenize(normalized) {
		inputTokens[tok] = true
	}

	maxScore := 0
	var top []int
	for i, o := range m.options {
		score := 0
		for _, tok := range tokenize(normalize(o.Value)) {
			if inputTokens[tok] {
				score += valueWeight
			}
		}
		for kw := range m.keywords[i] {
			if inputTokens[kw] {
				score += keywordWeight
			}
		}
		switch {
		case score == 0:
		case score > maxScore:
			maxScore = score
			top = []int{i}
		case score == maxScore:
			top = append(top, i)
		}
	}

	switch len(top) {
	case 0:
		return MatchResult{Status: Unmatched}
	case 1:
		return MatchResult{Status: Matched, Option: &m.options[top[0]]}
	}
	candidates := make([]Option, len(top))
	for j, i := range top {
		candidates[j] = m.options[i]
	}
	return MatchResult{Status: Ambiguous, Candidates: candidates}
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}
