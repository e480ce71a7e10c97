package voice

import (
	"strings"
	"unicode/utf8"

	"github.com/dropforge/dropforge/internal/transcript"
)

// estimatePace matches the narration speed the TTS voices actually produce.
const estimatePace = 150 // words per minute

// EstimateTimings fabricates word timestamps for backends that return none.
// Each word's share of the total is proportional to its length in runes plus
// one for the following gap, so long words get more time than short ones.
// When total is zero or negative the duration is derived from the pace.
func EstimateTimings(text string, total float64) []transcript.Word {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	if total <= 0 {
		total = float64(len(fields)) / estimatePace * 60
	}

	weights := make([]int, len(fields))
	sum := 0
	for i, f := range fields {
		weights[i] = utf8.RuneCountInString(f) + 1
		sum += weights[i]
	}

	words := make([]transcript.Word, len(fields))
	cursor := 0.0
	for i, f := range fields {
		share := total * float64(weights[i]) / float64(sum)
		words[i] = transcript.Word{
			Text:  f,
			Start: cursor,
			End:   cursor + share,
		}
		cursor += share
	}
	// Absorb accumulated float drift so the last word closes the clip.
	words[len(words)-1].End = total
	return words
}
