package script

import (
	"math"
	"strings"
	"testing"
)

func TestEstimateReadTime(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 150))
	if got := EstimateReadTime(text); math.Abs(got-60) > 1e-9 {
		t.Errorf("150 words = %vs, want 60s", got)
	}
	if got := EstimateReadTime(""); got != 0 {
		t.Errorf("empty text = %vs, want 0", got)
	}
	if got := EstimateReadTime("just five words right here"); math.Abs(got-2) > 1e-9 {
		t.Errorf("5 words = %vs, want 2s", got)
	}
}

func TestEstimateAtTempo(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 150))
	if got := EstimateAtTempo(text, 1.2); math.Abs(got-50) > 1e-9 {
		t.Errorf("150 words at 1.2x = %vs, want 50s", got)
	}
	if got := EstimateAtTempo(text, 0); math.Abs(got-60) > 1e-9 {
		t.Errorf("zero tempo should fall back to normal pace, got %vs", got)
	}
}
