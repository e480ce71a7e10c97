// Package pitch resolves phrase-level pitch-drop intent against word-level
// audio timestamps and shapes the result into a time-varying pitch
// multiplier envelope for the resynthesis step.
//
// Intent arrives either as structured markers saved next to a generated
// script or as inline markup inside free text. Resolution is synchronous
// and stateless: each call owns its scratch state and nothing is shared
// between runs.
package pitch

// Marker is unresolved pitch-drop intent: a phrase quoted from the script
// and the semitone offset to apply while it is spoken. Marker order is the
// order of mention in the script, not time order.
type Marker struct {
	Phrase    string `json:"phrase"`
	Semitones int    `json:"semitones"`
}

// Cue is a resolved, time-bounded pitch instruction. Within one resolved
// set cues never overlap, and the set is sorted ascending by Start.
type Cue struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Semitones int     `json:"semitones"`
}
