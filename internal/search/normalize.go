package search

import (
	"strings"
	"unicode/utf8"
)

// Normalize turns raw input into the canonical query used for matching and as
// the SearchValue key: cut to maxLen runes, then lowercased. Whitespace is
// kept, so " go" and "go" are different queries. The empty string is a valid
// result.
func Normalize(raw string, maxLen int) string {
	q := raw
	if maxLen > 0 && utf8.RuneCountInString(q) > maxLen {
		q = string([]rune(q)[:maxLen])
	}
	return strings.ToLower(q)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func prefixPattern(q string) string {
	return likeEscaper.Replace(q) + "%"
}
