package pitch

import (
	"math"
	"testing"
)

func TestSemitoneFactor(t *testing.T) {
	if got := SemitoneFactor(0); got != 1.0 {
		t.Errorf("SemitoneFactor(0) = %v, want 1.0", got)
	}
	if got := SemitoneFactor(-12); got != 0.5 {
		t.Errorf("SemitoneFactor(-12) = %v, want 0.5", got)
	}
	if got := SemitoneFactor(12); got != 2.0 {
		t.Errorf("SemitoneFactor(12) = %v, want 2.0", got)
	}
	got := SemitoneFactor(-4)
	want := math.Pow(2, -4.0/12)
	if got != want {
		t.Errorf("SemitoneFactor(-4) = %v, want %v", got, want)
	}
}

func TestEnvelopeRegions(t *testing.T) {
	cues := []Cue{{Start: 1.0, End: 2.0, Semitones: -4}}
	e := NewEnvelope(cues, 3.0)
	factor := SemitoneFactor(-4)

	if got := e.At(0.5); got != 1.0 {
		t.Errorf("outside all cues: At(0.5) = %v, want 1.0", got)
	}
	if got := e.At(1.5); got != factor {
		t.Errorf("sustain: At(1.5) = %v, want %v", got, factor)
	}
	if got := e.At(1.0); got != factor {
		t.Errorf("sustain start: At(1.0) = %v, want %v", got, factor)
	}
	if got := e.At(2.9); got != 1.0 {
		t.Errorf("after post-ramp: At(2.9) = %v, want 1.0", got)
	}
}

func TestEnvelopeRampBoundaryExactness(t *testing.T) {
	cues := []Cue{{Start: 1.0, End: 2.0, Semitones: -4}}
	e := NewEnvelope(cues, 3.0)
	factor := SemitoneFactor(-4)

	// Inner edges, touching the sustain region, carry exactly factor.
	if got := e.At(2.0); got != factor {
		t.Errorf("post-ramp inner edge: At(2.0) = %v, want exactly %v", got, factor)
	}
	// Outer edges carry exactly 1.0.
	if got := e.At(1.0 - RampDuration); got != 1.0 {
		t.Errorf("pre-ramp outer edge: At(%v) = %v, want exactly 1.0", 1.0-RampDuration, got)
	}
	if got := e.At(2.0 + RampDuration); got != 1.0 {
		t.Errorf("post-ramp outer edge: At(%v) = %v, want exactly 1.0", 2.0+RampDuration, got)
	}
}

func TestEnvelopeRampIsLinear(t *testing.T) {
	cues := []Cue{{Start: 1.0, End: 2.0, Semitones: -4}}
	e := NewEnvelope(cues, 3.0)
	factor := SemitoneFactor(-4)

	mid := 1.0 - RampDuration/2
	want := (1.0 + factor) / 2
	if got := e.At(mid); math.Abs(got-want) > 1e-9 {
		t.Errorf("pre-ramp midpoint: At(%v) = %v, want %v", mid, got, want)
	}
	mid = 2.0 + RampDuration/2
	if got := e.At(mid); math.Abs(got-want) > 1e-9 {
		t.Errorf("post-ramp midpoint: At(%v) = %v, want %v", mid, got, want)
	}
}

func TestEnvelopeClipsRampAtNeighborSustain(t *testing.T) {
	// Gap of 0.01s is under 2×RampDuration, so the first cue's post-ramp
	// would reach into the second cue's sustain without clipping.
	cues := []Cue{
		{Start: 1.0, End: 2.0, Semitones: -4},
		{Start: 2.01, End: 3.0, Semitones: -12},
	}
	e := NewEnvelope(cues, 4.0)

	if got, want := e.At(2.015), SemitoneFactor(-12); got != want {
		t.Errorf("neighbor sustain must win over ramp: At(2.015) = %v, want %v", got, want)
	}
	if got, want := e.At(1.5), SemitoneFactor(-4); got != want {
		t.Errorf("first sustain: At(1.5) = %v, want %v", got, want)
	}
	// Inside the 0.01s gap both ramps apply; the earlier cue's post-ramp
	// wins and the value stays between the two factors and 1.0.
	got := e.At(2.005)
	if got >= 1.0 || got <= SemitoneFactor(-12) {
		t.Errorf("gap value At(2.005) = %v out of expected band", got)
	}
}

func TestEnvelopeTable(t *testing.T) {
	cues := []Cue{{Start: 0.1, End: 0.3, Semitones: -4}}
	e := NewEnvelope(cues, 1.0)
	pts := e.Table()
	if len(pts) == 0 {
		t.Fatal("empty table")
	}
	if pts[0].Time != 0 {
		t.Errorf("first sample at %v, want 0", pts[0].Time)
	}
	last := pts[len(pts)-1]
	if last.Time < e.Duration()-SampleStep || last.Time > e.Duration() {
		t.Errorf("last sample at %v, want within one step of %v", last.Time, e.Duration())
	}
	for i, p := range pts {
		if p.Factor <= 0 {
			t.Fatalf("sample %d has non-positive factor %v", i, p.Factor)
		}
		if i > 0 && p.Time < pts[i-1].Time {
			t.Fatalf("samples not ascending at %d", i)
		}
	}
	// Sustain samples carry the exact factor.
	factor := SemitoneFactor(-4)
	if got := pts[20].Factor; got != factor {
		t.Errorf("sample at 0.2s = %v, want %v", got, factor)
	}
}

func TestEnvelopeEmptyCues(t *testing.T) {
	e := NewEnvelope(nil, 2.0)
	for _, tm := range []float64{0, 0.5, 1.0, 1.99} {
		if got := e.At(tm); got != 1.0 {
			t.Errorf("At(%v) = %v, want 1.0 with no cues", tm, got)
		}
	}
}
