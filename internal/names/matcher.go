package names

import fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

// BestMatch scores query against every candidate with a token-sort ratio
// (0-100, insensitive to word order) and returns the highest-scoring
// candidate. Ties resolve to the first candidate in input order; callers may
// rely on that. When the best score is below minScore no match is returned
// but the score still is, so callers can log near misses before trying their
// substring fallback.
func BestMatch(query string, candidates []string, minScore int) (string, int, bool) {
	if query == "" || len(candidates) == 0 {
		return "", 0, false
	}
	best := ""
	bestScore := -1
	for _, c := range candidates {
		score := fuzzy.TokenSortRatio(query, c)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore < minScore {
		return "", bestScore, false
	}
	return best, bestScore, true
}
