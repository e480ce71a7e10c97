package script

import "strings"

// wordsPerMinute is the baseline narration pace of the TTS voices we use.
// Measured from generated narrations, not reading-speed folklore.
const wordsPerMinute = 150

// EstimateReadTime returns the expected narration length of text in seconds
// at normal speaking pace.
func EstimateReadTime(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return float64(words) / wordsPerMinute * 60
}

// EstimateAtTempo returns the narration length after the audio is sped up
// by the given tempo factor.
func EstimateAtTempo(text string, tempo float64) float64 {
	if tempo <= 0 {
		return EstimateReadTime(text)
	}
	return EstimateReadTime(text) / tempo
}
