// Package search parses launcher search queries and ranks applications
// against them.
package search

import (
	"strings"
	"time"
)

// Directive types
type DirectiveType int

const (
	DirName DirectiveType = iota
	DirCategory
	DirKeyword
	DirInstalled
)

// Comparison operators for dates
type Operator int

const (
	OpNone Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
	OpEquals
)

// Directive represents a single search directive
type Directive struct {
	Type     DirectiveType
	Value    string
	Operator Operator
	TimeVal  time.Time // Parsed date
}

// Query holds parsed search directives
type Query struct {
	Directives []Directive
	Raw        string
}

// Parse parses a search string into directives
// Examples:
//   - "fire" -> name:fire
//   - "cat:graphics" -> applications in the Graphics category
//   - "keyword:browser" -> applications listing "browser" as a keyword
//   - "installed:>2024-01-01" -> applications installed after Jan 1, 2024
func Parse(input string) *Query {
	q := &Query{Raw: input}
	input = strings.TrimSpace(input)
	if input == "" {
		return q
	}

	// Split by spaces, but respect quotes
	for _, part := range splitRespectingQuotes(input) {
		q.Directives = append(q.Directives, parseDirective(part))
	}
	return q
}

func splitRespectingQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseDirective(s string) Directive {
	if idx := strings.Index(s, ":"); idx > 0 {
		directive := strings.ToLower(s[:idx])
		value := strings.Trim(s[idx+1:], "\"'")

		switch directive {
		case "name", "app":
			return Directive{Type: DirName, Value: strings.ToLower(value)}

		case "category", "cat":
			return Directive{Type: DirCategory, Value: strings.ToLower(value)}

		case "keyword", "kw":
			return Directive{Type: DirKeyword, Value: strings.ToLower(value)}

		case "installed", "new":
			op, dateStr := parseOperator(value)
			return Directive{Type: DirInstalled, Value: value, Operator: op, TimeVal: parseDate(dateStr)}
		}
	}

	// Default to name search
	return Directive{Type: DirName, Value: strings.ToLower(s)}
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGreaterEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, "<="):
		return OpLessEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, ">"):
		return OpGreater, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "<"):
		return OpLess, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "="):
		return OpEquals, strings.TrimSpace(s[1:])
	default:
		return OpNone, s
	}
}

// parseDate parses date strings like "2024-01-01", "2024-01", "today", "week"
func parseDate(s string) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	now := time.Now()

	switch s {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "yesterday":
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	}

	formats := []string{
		"2006-01-02",
		"2006-01",
		"2006/01/02",
		"01/02/2006",
		"Jan 2, 2006",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// matchGlob does simple glob matching with * wildcards
func matchGlob(name, pattern string) bool {
	// If pattern has no wildcards, do substring match
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}

	parts := strings.Split(pattern, "*")

	// Check prefix
	if parts[0] != "" && !strings.HasPrefix(name, parts[0]) {
		return false
	}

	// Check suffix
	last := parts[len(parts)-1]
	if last != "" && !strings.HasSuffix(name, last) {
		return false
	}

	// Check middle parts exist in order
	pos := len(parts[0])
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(name[pos:], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}

// compareTime compares val against target. A bare date (OpNone) means
// "since", which is what "installed:week" reads as.
func compareTime(val, target time.Time, op Operator) bool {
	switch op {
	case OpGreater:
		return val.After(target)
	case OpLess:
		return val.Before(target)
	case OpGreaterEq, OpNone:
		return val.After(target) || val.Equal(target)
	case OpLessEq:
		return val.Before(target) || val.Equal(target)
	default:
		// For equals, compare just the date part
		vy, vm, vd := val.Date()
		ty, tm, td := target.Date()
		return vy == ty && vm == tm && vd == td
	}
}

// IsEmpty returns true if query has no directives
func (q *Query) IsEmpty() bool {
	return len(q.Directives) == 0
}

// Terms returns the values of the name directives.
func (q *Query) Terms() []string {
	var out []string
	for _, d := range q.Directives {
		if d.Type == DirName && d.Value != "" {
			out = append(out, d.Value)
		}
	}
	return out
}
