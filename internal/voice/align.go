package voice

import (
	"fmt"

	"github.com/dropforge/dropforge/internal/transcript"
)

// Alignment is the character-level timing block ElevenLabs returns with
// synthesized audio. All three slices run in parallel, one entry per
// character of the spoken text.
type Alignment struct {
	Characters []string  `json:"characters"`
	StartTimes []float64 `json:"character_start_times_seconds"`
	EndTimes   []float64 `json:"character_end_times_seconds"`
}

// Words collapses character timings into word timings. A word starts at its
// first character's start and ends at its last character's end; spaces
// delimit words and contribute no time of their own.
func (a Alignment) Words() ([]transcript.Word, error) {
	if len(a.Characters) != len(a.StartTimes) || len(a.Characters) != len(a.EndTimes) {
		return nil, fmt.Errorf("alignment arrays disagree: %d chars, %d starts, %d ends",
			len(a.Characters), len(a.StartTimes), len(a.EndTimes))
	}

	var words []transcript.Word
	var current string
	wordStart := -1.0

	for i, ch := range a.Characters {
		if ch == " " {
			if current != "" {
				words = append(words, transcript.Word{
					Text:  current,
					Start: wordStart,
					End:   a.EndTimes[i-1],
				})
				current = ""
				wordStart = -1.0
			}
			continue
		}
		if wordStart < 0 {
			wordStart = a.StartTimes[i]
		}
		current += ch
	}
	if current != "" {
		words = append(words, transcript.Word{
			Text:  current,
			Start: wordStart,
			End:   a.EndTimes[len(a.EndTimes)-1],
		})
	}
	return words, nil
}
