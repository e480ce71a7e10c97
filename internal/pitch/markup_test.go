package pitch

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMarkedScript(t *testing.T) {
	text := "This is a *war crime*(-4) and a *federal offense*(-5)."
	clean, markers, err := ParseMarkedScript(text)
	if err != nil {
		t.Fatalf("ParseMarkedScript: %v", err)
	}
	if want := "This is a war crime and a federal offense."; clean != want {
		t.Errorf("clean text = %q, want %q", clean, want)
	}
	want := []Marker{
		{Phrase: "war crime", Semitones: -4},
		{Phrase: "federal offense", Semitones: -5},
	}
	if len(markers) != len(want) {
		t.Fatalf("got %d markers, want %d", len(markers), len(want))
	}
	for i := range want {
		if markers[i] != want[i] {
			t.Errorf("marker %d = %+v, want %+v", i, markers[i], want[i])
		}
	}
}

func TestParseMarkedScriptNoMarkup(t *testing.T) {
	text := "Plain narration with no annotations at all."
	clean, markers, err := ParseMarkedScript(text)
	if err != nil {
		t.Fatalf("ParseMarkedScript: %v", err)
	}
	if clean != text {
		t.Errorf("clean text = %q, want input unchanged", clean)
	}
	if len(markers) != 0 {
		t.Errorf("got %d markers, want 0", len(markers))
	}
}

func TestParseMarkedScriptPreservesPhraseVerbatim(t *testing.T) {
	_, markers, err := ParseMarkedScript("Say *Federal Offense,*(-5) loudly.")
	if err != nil {
		t.Fatalf("ParseMarkedScript: %v", err)
	}
	if markers[0].Phrase != "Federal Offense," {
		t.Errorf("phrase = %q, want case and punctuation preserved", markers[0].Phrase)
	}
}

func TestParseMarkedScriptPositiveOffset(t *testing.T) {
	clean, markers, err := ParseMarkedScript("Going *up*(+3) now.")
	if err != nil {
		t.Fatalf("ParseMarkedScript: %v", err)
	}
	if clean != "Going up now." {
		t.Errorf("clean text = %q", clean)
	}
	if markers[0].Semitones != 3 {
		t.Errorf("semitones = %d, want 3", markers[0].Semitones)
	}
}

func TestParseMarkedScriptMalformed(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"unterminated phrase", "This is a *war crime and more."},
		{"missing parenthetical", "This is a *war crime* and more."},
		{"missing sign", "This is a *war crime*(4)."},
		{"non integer", "This is a *war crime*(-four)."},
		{"empty phrase", "This is a **(-4)."},
		{"stray trailing asterisk", "Fine *drop*(-4) then oops*."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := ParseMarkedScript(c.text)
			if err == nil {
				t.Fatalf("expected parse error for %q", c.text)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Offset < 0 || perr.Offset >= len(c.text) {
				t.Errorf("offset %d out of range for %q", perr.Offset, c.text)
			}
			if !strings.HasPrefix(c.text[perr.Offset:], strings.TrimSuffix(perr.Span, "...")) {
				t.Errorf("span %q does not start at offset %d", perr.Span, perr.Offset)
			}
		})
	}
}
