package pitch

import (
	"strings"
	"unicode"
)

// NormalizeWord canonicalizes a word token for matching: lowercase, with
// leading and trailing non-alphanumeric runes stripped. Punctuation inside
// the word (hyphens, apostrophes) survives, so "don't" and
// "state-of-the-art" keep their shape while "crime?" becomes "crime".
// Total and idempotent; an all-punctuation token normalizes to "".
func NormalizeWord(w string) string {
	w = strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(w)
}
