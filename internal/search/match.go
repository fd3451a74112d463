package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/justyntemme/launchpad/internal/model"
)

// Scores for name matches, best first.
const (
	scoreExact     = 100
	scorePrefix    = 80
	scoreWord      = 70
	scoreSubstring = 60
	scoreGlob      = 50
	scoreFuzzy     = 40
	scoreKeyword   = 30
)

// maxDistance is the edit distance tolerated for a term of length n.
func maxDistance(n int) int {
	switch {
	case n < 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// Match evaluates it against every directive (AND logic) and returns the
// summed score.
func (q *Query) Match(it model.Item) (int, bool) {
	if it.IsDir {
		return 0, false
	}
	total := 0
	for _, d := range q.Directives {
		s, ok := matchDirective(d, it)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total, true
}

func matchDirective(d Directive, it model.Item) (int, bool) {
	switch d.Type {
	case DirName:
		if d.Value == "" {
			return 0, true
		}
		if s := nameScore(strings.ToLower(it.Name), d.Value); s > 0 {
			return s, true
		}
		for _, kw := range it.Keywords {
			if strings.Contains(strings.ToLower(kw), d.Value) {
				return scoreKeyword, true
			}
		}
		return 0, false

	case DirCategory:
		for _, c := range it.Categories {
			if strings.HasPrefix(strings.ToLower(c), d.Value) {
				return 1, true
			}
		}
		return 0, false

	case DirKeyword:
		for _, kw := range it.Keywords {
			if strings.Contains(strings.ToLower(kw), d.Value) {
				return 1, true
			}
		}
		return 0, false

	case DirInstalled:
		if d.TimeVal.IsZero() {
			return 0, true
		}
		if it.InstalledAt.IsZero() {
			return 0, false
		}
		return 1, compareTime(it.InstalledAt, d.TimeVal, d.Operator)
	}
	return 0, true
}

func nameScore(name, term string) int {
	switch {
	case name == term:
		return scoreExact
	case strings.HasPrefix(name, term):
		return scorePrefix
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
	})
	for _, w := range words {
		if strings.HasPrefix(w, term) {
			return scoreWord
		}
	}
	if strings.Contains(term, "*") {
		if matchGlob(name, term) {
			return scoreGlob
		}
		return 0
	}
	if strings.Contains(name, term) {
		return scoreSubstring
	}

	limit := maxDistance(len(term))
	if limit == 0 {
		return 0
	}
	best := limit + 1
	for _, w := range words {
		// Compare against the word and its prefix of the term's length so
		// a partially typed word with a typo still matches.
		cands := []string{w}
		if len(w) > len(term) {
			cands = append(cands, w[:len(term)])
		}
		for _, c := range cands {
			best = min(best, levenshtein.ComputeDistance(c, term))
		}
	}
	if best > limit {
		return 0
	}
	return scoreFuzzy - 10*best
}

// Filter returns the items matching query, best score first and by name
// within equal scores. An empty query matches nothing.
func Filter(items []model.Item, query string) []model.Item {
	q := Parse(query)
	if q.IsEmpty() {
		return nil
	}
	type scored struct {
		it    model.Item
		score int
	}
	var hits []scored
	for _, it := range items {
		if s, ok := q.Match(it); ok {
			hits = append(hits, scored{it, s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return strings.ToLower(hits[i].it.Name) < strings.ToLower(hits[j].it.Name)
	})
	out := make([]model.Item, len(hits))
	for i, h := range hits {
		out[i] = h.it
	}
	return out
}

// Keys returns the keys of items in order.
func Keys(items []model.Item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}
