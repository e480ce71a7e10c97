package sfx

import "github.com/dropforge/dropforge/internal/pitch"

// Placement drops one effect onto the final mix at an absolute time.
// Field names match the editor's placement format on disk.
type Placement struct {
	SFXPath string  `json:"sfx_path"`
	Time    float64 `json:"time"`
	Volume  float64 `json:"volume"`
}

// PlaceAtCues puts one effect right after each pitch cue, at the cue's end,
// so the boom lands as the pitched word finishes.
func PlaceAtCues(cues []pitch.Cue, soundPath string, volume float64) []Placement {
	placements := make([]Placement, 0, len(cues))
	for _, cue := range cues {
		placements = append(placements, Placement{
			SFXPath: soundPath,
			Time:    cue.End,
			Volume:  volume,
		})
	}
	return placements
}
