package utils

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ParseStringToUUID returns uuid.Nil for empty or malformed input.
func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// ParseIntOrDefault parses a query value, falling back to def when the
// value is missing or not a number.
func ParseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// GenerateInitials builds avatar initials from a display name:
// the first letter of the first and the last alphabetic word, upper-cased.
//
//	"Ada Lovelace"       → "AL"
//	"  grace  m. hopper" → "GH"
//	"Plato"              → "P"
//	"42 !!"              → ""
func GenerateInitials(fullName string) string {
	var letters []rune
	for _, word := range strings.Fields(fullName) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
				break
			}
		}
	}

	switch len(letters) {
	case 0:
		return ""
	case 1:
		return string(letters[0])
	default:
		return string([]rune{letters[0], letters[len(letters)-1]})
	}
}
