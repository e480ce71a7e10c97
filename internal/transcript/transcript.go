// Package transcript models the word-level timing sequence produced by the
// voice synthesis step and its remapping after a uniform tempo change.
package transcript

import (
	"fmt"
	"strings"
)

// Word is one spoken word with its time bounds in seconds. A sequence is
// ordered ascending by Start with no overlap between consecutive entries.
// Sequences are produced by the voice step and are read-only downstream.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Rescale remaps a word sequence after a uniform tempo change. The output
// audio plays tempo times faster than the audio the timestamps were taken
// from, so every boundary divides by tempo. Word order and text are
// untouched. tempo must be positive.
func Rescale(words []Word, tempo float64) ([]Word, error) {
	if tempo <= 0 {
		return nil, fmt.Errorf("tempo multiplier must be positive, got %v", tempo)
	}
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{Text: w.Text, Start: w.Start / tempo, End: w.End / tempo}
	}
	return out, nil
}

// Duration returns the end time of the last word, zero for an empty
// sequence.
func Duration(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	return words[len(words)-1].End
}

// Text joins the word tokens back into a single space-separated line.
func Text(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}
