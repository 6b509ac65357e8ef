package match

import (
	"cmp"
	"slices"
)

// MinScore is the similarity below which Closest drops a candidate.
const MinScore = 0.5

type scored struct {
	name  string
	score float64
}

// Closest returns up to limit names from candidates that resemble query,
// best first. Ties keep the order of candidates.
func Closest(query string, candidates []string, limit int) []string {
	if limit <= 0 || query == "" {
		return nil
	}

	var ranked []scored
	for _, c := range candidates {
		if s := NormalizedLevenshteinScore(query, c); s >= MinScore {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int { return cmp.Compare(b.score, a.score) })

	out := make([]string, 0, min(limit, len(ranked)))
	for _, r := range ranked[:min(limit, len(ranked))] {
		out = append(out, r.name)
	}

	return out
}
