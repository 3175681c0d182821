package utils

import (
	"strings"
	"unicode"
)

// NormalizeName canonicalizes a person name for storage: surrounding
// whitespace is trimmed, internal runs of spaces collapse to one, and
// each word is title-cased ("  joHN   doE " -> "John Doe").  Returns
// "" for blank input so callers can treat it as missing.
func NormalizeName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
