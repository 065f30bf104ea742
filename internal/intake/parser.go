// Package intake turns a texted list of orders into form entries.
package intake

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/somramnani/hibachi-orders/internal/menu"
)

// Batch is the result of parsing an order list.
type Batch struct {
	Entries  []Entry
	Warnings []string // lines that were skipped, with the reason
}

// Entry is one guest's order parsed from a line such as
// "Jane Doe: chicken, steak, lobster tail | no onions".
type Entry struct {
	Line            int // 1-based
	RawText         string
	GuestName       string
	Proteins        []string // catalog values
	AdditionalNotes string
}

// ParseBatch parses one order per line. Blank lines and lines starting with
// "#" are ignored; lines that cannot be resolved are reported in Warnings.
// Protein names are resolved with m, so "Lobster Tail" or "prawns" work.
func ParseBatch(text string, m *menu.Matcher) (*Batch, error) {
	b := &Batch{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line, m)
		if err != nil {
			b.Warnings = append(b.Warnings, fmt.Sprintf("line %d skipped: %v", i+1, err))
			continue
		}
		entry.Line = i + 1
		b.Entries = append(b.Entries, *entry)
	}

	if len(b.Entries) == 0 {
		return nil, fmt.Errorf("no orders found (%d lines skipped)", len(b.Warnings))
	}
	return b, nil
}

func parseLine(line string, m *menu.Matcher) (*Entry, error) {
	body, notes, _ := strings.Cut(line, "|")

	name, list, found := strings.Cut(body, ":")
	if !found {
		return nil, fmt.Errorf("missing ':' after guest name")
	}
	name = stripBullet(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("missing guest name")
	}

	var proteins []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		res := m.Match(part)
		switch res.Status {
		case menu.Matched:
			proteins = append(proteins, res.Option.Value)
		case menu.Ambiguous:
			return nil, fmt.Errorf("%q is ambiguous (%s)", part, candidateValues(res.Candidates))
		default:
			return nil, fmt.Errorf("%q is not on the menu", part)
		}
	}
	if len(proteins) != 3 {
		return nil, fmt.Errorf("need three proteins, got %d", len(proteins))
	}

	return &Entry{
		RawText:         line,
		GuestName:       name,
		Proteins:        proteins,
		AdditionalNotes: strings.TrimSpace(notes),
	}, nil
}

// stripBullet removes list markers: "- Jane", "* Jane", "3. Jane", "3) Jane".
func stripBullet(s string) string {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") {
		return strings.TrimSpace(s[1:])
	}
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end > 0 && end < len(s) && (s[end] == '.' || s[end] == ')') {
		return strings.TrimSpace(s[end+1:])
	}
	return s
}

func candidateValues(opts []menu.Option) string {
	vals := make([]string, len(opts))
	for i, o := range opts {
		vals[i] = o.Value
	}
	return strings.Join(vals, " or ")
}
