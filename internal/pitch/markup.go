package pitch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// markerPattern matches one well-formed inline annotation: a phrase wrapped
// in single asterisks followed immediately by a signed integer in
// parentheses, e.g. `*war crime*(-4)`.
var markerPattern = regexp.MustCompile(`\*([^*]+)\*\(([+-]\d+)\)`)

// ParseError reports a malformed inline annotation with its byte offset in
// the source text. The parser never guesses a value for a broken span.
type ParseError struct {
	Offset int
	Span   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed pitch markup at offset %d near %q", e.Offset, e.Span)
}

// markupSpan is one matched annotation with its location in the source
// text, kept so stripping and phrase extraction stay in sync.
type markupSpan struct {
	phrase     string
	semitones  int
	start, end int
}

// ParseMarkedScript extracts inline pitch annotations from narration text.
// It returns the text with every annotation replaced by its bare phrase,
// plus the markers in left-to-right order of appearance. Phrase text is
// carried verbatim; case and punctuation are preserved because matching
// happens later against normalized spoken words, not against markup. Any
// stray asterisk or half-formed annotation aborts with a *ParseError.
func ParseMarkedScript(text string) (string, []Marker, error) {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([]markupSpan, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			return "", nil, &ParseError{Offset: m[0], Span: snippet(text, m[0])}
		}
		spans = append(spans, markupSpan{
			phrase:    text[m[2]:m[3]],
			semitones: n,
			start:     m[0],
			end:       m[1],
		})
	}
	if off, ok := strayAsterisk(text, spans); ok {
		return "", nil, &ParseError{Offset: off, Span: snippet(text, off)}
	}

	var clean strings.Builder
	clean.Grow(len(text))
	markers := make([]Marker, 0, len(spans))
	last := 0
	for _, s := range spans {
		clean.WriteString(text[last:s.start])
		clean.WriteString(s.phrase)
		markers = append(markers, Marker{Phrase: s.phrase, Semitones: s.semitones})
		last = s.end
	}
	clean.WriteString(text[last:])
	return clean.String(), markers, nil
}

// strayAsterisk finds the first '*' that is not part of a well-formed
// annotation span. Such an asterisk marks either an unterminated phrase or
// a span whose parenthetical failed to parse (missing sign, non-integer).
func strayAsterisk(text string, spans []markupSpan) (int, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '*' {
			continue
		}
		inside := false
		for _, s := range spans {
			if i >= s.start && i < s.end {
				inside = true
				break
			}
		}
		if !inside {
			return i, true
		}
	}
	return 0, false
}

// snippet returns a short rune-safe excerpt starting at off for error
// messages.
func snippet(text string, off int) string {
	const max = 24
	runes := []rune(text[off:])
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}
