package project

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/sfx"
)

// State is what the timeline editor persists between sessions. Layout is
// an opaque blob owned by the frontend; the typed fields are the ones the
// pipeline consumes.
type State struct {
	SavedAt      time.Time       `json:"saved_at"`
	BaseSpeed    float64         `json:"base_speed,omitempty"`
	PitchMarkers []pitch.Marker  `json:"pitch_markers,omitempty"`
	Placements   []sfx.Placement `json:"sfx_placements,omitempty"`
	Layout       json.RawMessage `json:"layout,omitempty"`
}

// SaveState persists the editor state, stamping the save time. Concurrent
// saves resolve last-write-wins; the stamp lets clients detect that their
// view is stale. Placements are mirrored to their own artifact so the
// pipeline picks them up without parsing editor internals.
func (s *Store) SaveState(st *State) error {
	if st.SavedAt.IsZero() {
		st.SavedAt = time.Now().UTC()
	}
	if err := s.writeJSON(StateFile, st); err != nil {
		return err
	}
	if st.Placements != nil {
		return s.SavePlacements(st.Placements)
	}
	return nil
}

// LoadState returns nil with no error when nothing has been saved yet.
func (s *Store) LoadState() (*State, error) {
	var st State
	err := s.readJSON(StateFile, &st)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
