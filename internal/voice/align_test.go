package voice

import (
	"testing"
)

// alignmentOf builds a character alignment where each character occupies
// one 0.1s slot, the way ElevenLabs reports dense alignments.
func alignmentOf(text string) Alignment {
	a := Alignment{}
	for i, r := range []rune(text) {
		a.Characters = append(a.Characters, string(r))
		a.StartTimes = append(a.StartTimes, float64(i)*0.1)
		a.EndTimes = append(a.EndTimes, float64(i+1)*0.1)
	}
	return a
}

func TestAlignmentWords(t *testing.T) {
	words, err := alignmentOf("war crime").Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}

	// "war" is chars 0-2, "crime" is chars 4-8
	if words[0].Text != "war" || words[0].Start != 0 || words[0].End != 0.3 {
		t.Errorf("first word = %+v", words[0])
	}
	if words[1].Text != "crime" || words[1].Start != 0.4 || words[1].End != 0.9 {
		t.Errorf("second word = %+v", words[1])
	}
}

func TestAlignmentWordsTrailingWord(t *testing.T) {
	// No trailing space: the final word must still close at the last end time.
	words, err := alignmentOf("a b").Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	last := words[len(words)-1]
	if last.Text != "b" || last.End != 0.3 {
		t.Errorf("last word = %+v, want b ending at 0.3", last)
	}
}

func TestAlignmentWordsCollapsesRuns(t *testing.T) {
	words, err := alignmentOf("a  b").Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("double space should not create empty words, got %+v", words)
	}
}

func TestAlignmentWordsPunctuationStaysAttached(t *testing.T) {
	words, err := alignmentOf("room.").Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 1 || words[0].Text != "room." {
		t.Errorf("words = %+v, want single word %q", words, "room.")
	}
}

func TestAlignmentWordsLengthMismatch(t *testing.T) {
	a := alignmentOf("hi")
	a.EndTimes = a.EndTimes[:1]
	if _, err := a.Words(); err == nil {
		t.Fatal("expected error for mismatched alignment arrays")
	}
}

func TestAlignmentWordsEmpty(t *testing.T) {
	words, err := Alignment{}.Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("empty alignment produced %+v", words)
	}
}
