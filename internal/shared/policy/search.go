package policy

import (
	"strings"
	"unicode"
)

// ParseQuery splits a search query into lower-case word tokens.
func ParseQuery(query string) []string {
	return words(query)
}

// MatchesQuery reports whether every token is a word of content, or every
// token is a word of the author's identity fields. It never consults
// visibility; callers AND it with a Visibility.
func MatchesQuery(tokens []string, content string, authorFields ...string) bool {
	if len(tokens) == 0 {
		return false
	}
	if containsAll(words(content), tokens) {
		return true
	}
	return containsAll(words(strings.Join(authorFields, " ")), tokens)
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func containsAll(haystack, tokens []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, w := range haystack {
		set[w] = struct{}{}
	}
	for _, t := range tokens {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}
