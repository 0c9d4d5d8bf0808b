package names

import "strings"

// generational suffixes that providers include inconsistently.
var suffixTokens = map[string]bool{
	"jr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
}

// Normalize canonicalizes a player or team name for matching: punctuation
// stripped, generational suffixes dropped, whitespace collapsed, lowercased.
// It must be applied identically to both sides of every comparison (stat
// records and market labels) or matching silently degrades.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if suffixTokens[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
