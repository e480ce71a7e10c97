package pitch

import (
	"sort"
	"strings"

	"github.com/dropforge/dropforge/internal/transcript"
)

// ResolveCues aligns an ordered marker list against a timestamped word
// sequence and returns time-bounded cues sorted ascending by start.
//
// Matching is greedy and order-dependent: markers resolve in input order,
// each match claims its word indices, and claimed indices are unavailable
// to every later marker. That is a deliberate first-match-wins tie-break
// favoring script-author ordering over any notion of best fit. A marker
// that cannot find its full phrase retries with just the phrase's last
// word; a marker that still finds nothing is dropped with a warning, never
// an error.
func ResolveCues(markers []Marker, words []transcript.Word) ([]Cue, *Report) {
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = NormalizeWord(w.Text)
	}

	used := make(map[int]struct{}, len(words))
	report := &Report{}
	cues := make([]Cue, 0, len(markers))

	for _, m := range markers {
		target := normalizePhrase(m.Phrase)
		if len(target) == 0 {
			report.addf(WarnUnmatched, m.Phrase, "phrase has no matchable words")
			continue
		}

		start, blocked := findWindow(normalized, target, used)
		if start < 0 && len(target) > 1 {
			// Authors often quote a slightly different phrase than was
			// spoken; the last word alone usually still lands.
			lastWord := target[len(target)-1:]
			var lastBlocked bool
			start, lastBlocked = findWindow(normalized, lastWord, used)
			blocked = blocked || lastBlocked
			if start >= 0 {
				target = lastWord
			}
		}
		if start < 0 {
			if blocked {
				report.addf(WarnConflict, m.Phrase, "every occurrence already claimed by an earlier marker")
			} else {
				report.addf(WarnUnmatched, m.Phrase, "no matching words in transcript")
			}
			continue
		}

		for i := start; i < start+len(target); i++ {
			used[i] = struct{}{}
		}
		cues = append(cues, Cue{
			Start:     words[start].Start,
			End:       words[start+len(target)-1].End,
			Semitones: m.Semitones,
		})
	}

	// Resolution order follows the script; output order follows time.
	sort.Slice(cues, func(i, j int) bool { return cues[i].Start < cues[j].Start })
	return cues, report
}

// normalizePhrase splits a phrase into normalized words, dropping tokens
// that normalize away entirely.
func normalizePhrase(phrase string) []string {
	fields := strings.Fields(phrase)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := NormalizeWord(f); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// findWindow slides a window of len(target) across the normalized sequence
// and returns the lowest starting index whose words equal the target in
// order and whose indices are all unclaimed. blocked reports whether at
// least one window matched on words but had lost an index to an earlier
// marker, which distinguishes an overlap conflict from a plain mismatch.
func findWindow(words, target []string, used map[int]struct{}) (start int, blocked bool) {
	for i := 0; i+len(target) <= len(words); i++ {
		match := true
		for j, t := range target {
			if words[i+j] != t {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		claimed := false
		for j := range target {
			if _, taken := used[i+j]; taken {
				claimed = true
				break
			}
		}
		if claimed {
			blocked = true
			continue
		}
		return i, blocked
	}
	return -1, blocked
}
