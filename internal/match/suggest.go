package match

import (
	"cmp"
	"slices"
	"strings"
)

// MinSimilarity is the score below which a candidate is not worth suggesting.
const MinSimilarity = 0.6

// Suggestion is a candidate name with its similarity to the queried header.
type Suggestion struct {
	Name  string
	Score float64
}

// Suggest returns up to limit candidates scoring at least MinSimilarity
// against header, best first. Ties keep candidate order. A limit <= 0
// returns every qualifying candidate.
func Suggest(header string, candidates []string, limit int) []Suggestion {
	var out []Suggestion

	for _, c := range candidates {
		if s := Similarity(header, c); s >= MinSimilarity {
			out = append(out, Suggestion{Name: c, Score: s})
		}
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Closest returns the best suggestion for header, if any qualifies.
func Closest(header string, candidates []string) (string, bool) {
	s := Suggest(header, candidates, 1)
	if len(s) == 0 {
		return "", false
	}

	return s[0].Name, true
}

// Overlap returns the share of expected columns present in headers, compared
// case-insensitively. It is 1.0 only when every expected column is present.
func Overlap(headers, expected []string) float64 {
	if len(expected) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	found := 0

	for _, e := range expected {
		if _, ok := have[strings.ToLower(e)]; ok {
			found++
		}
	}

	return float64(found) / float64(len(expected))
}
