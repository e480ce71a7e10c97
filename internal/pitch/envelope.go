package pitch

import "math"

// Fixed envelope contract values shared with the resynthesis side.
const (
	// RampDuration is the length in seconds of the linear transition on
	// each side of a cue.
	RampDuration = 0.02
	// SampleStep is the resolution in seconds of the dense envelope
	// table.
	SampleStep = 0.01
)

// Point is one sample of the dense envelope table.
type Point struct {
	Time   float64 `json:"time"`
	Factor float64 `json:"factor"`
}

// Envelope maps time to a positive pitch multiplier: 1.0 outside all cues,
// exactly the cue's factor inside its sustain region, and linear ramps of
// RampDuration on both sides so the resynthesized audio never jumps pitch
// discontinuously. Built fresh per run, handed to the resynthesis
// collaborator, and discarded; never persisted.
type Envelope struct {
	cues     []Cue
	factors  []float64
	duration float64
}

// SemitoneFactor converts a semitone offset to a frequency multiplier.
func SemitoneFactor(semitones int) float64 {
	return math.Pow(2, float64(semitones)/12)
}

// NewEnvelope builds an envelope over [0, duration] from a sorted,
// non-overlapping cue list.
func NewEnvelope(cues []Cue, duration float64) *Envelope {
	e := &Envelope{
		cues:     append([]Cue(nil), cues...),
		factors:  make([]float64, len(cues)),
		duration: duration,
	}
	for i, c := range cues {
		e.factors[i] = SemitoneFactor(c.Semitones)
	}
	return e
}

// Duration returns the time span the envelope covers.
func (e *Envelope) Duration() float64 { return e.duration }

// At evaluates the multiplier at time t. Sustain regions are checked
// before any ramp, so a ramp is clipped the moment it would cross into a
// neighboring cue's sustain: sustain correctness beats ramp smoothness at
// that boundary. When two bare ramps overlap, the earlier cue's ramp wins.
func (e *Envelope) At(t float64) float64 {
	for i, c := range e.cues {
		if t >= c.Start && t < c.End {
			return e.factors[i]
		}
	}
	for i, c := range e.cues {
		if rampStart := c.Start - RampDuration; t >= rampStart && t < c.Start {
			u := (t - rampStart) / (c.Start - rampStart)
			return 1 + (e.factors[i]-1)*u
		}
		if rampEnd := c.End + RampDuration; t >= c.End && t < rampEnd {
			u := (rampEnd - t) / (rampEnd - c.End)
			return 1 + (e.factors[i]-1)*u
		}
	}
	return 1.0
}

// Table samples the envelope at SampleStep resolution from zero through
// the full duration, for collaborators that take a dense representation
// instead of a callable.
func (e *Envelope) Table() []Point {
	if e.duration <= 0 {
		return []Point{{Time: 0, Factor: e.At(0)}}
	}
	n := int(math.Ceil(e.duration/SampleStep)) + 1
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * SampleStep
		if t > e.duration {
			t = e.duration
		}
		pts = append(pts, Point{Time: t, Factor: e.At(t)})
	}
	return pts
}
