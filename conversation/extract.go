package conversation

import (
	"strings"
	"unicode"
)

// introductions are matched in this priority order: the first pattern in the
// list that occurs anywhere in the text wins, not the leftmost occurrence.
var introductions = []string{
	"my name is ",
	"i'm ",
	"i am ",
	"call me ",
	"this is ",
}

// ExtractName scans a raw user message for a self-introduction and returns
// the normalized name. Matching is case-insensitive and literal: "im bob"
// does not match the "i'm " pattern. The candidate token must be longer than
// one character and entirely alphabetic after trailing punctuation is
// stripped.
func ExtractName(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, pattern := range introductions {
		idx := strings.Index(lower, pattern)
		if idx < 0 {
			continue
		}
		rest := message[idx+len(pattern):]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		name := capitalize(strings.Trim(fields[0], ".,!?"))
		if len([]rune(name)) > 1 && isAlpha(name) {
			return name, true
		}
		// A rejected candidate falls through to the next pattern.
	}
	return "", false
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
