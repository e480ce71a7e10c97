package project

import (
	"os"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/script"
	"github.com/dropforge/dropforge/internal/sfx"
	"github.com/dropforge/dropforge/internal/transcript"
)

func (s *Store) SaveScript(sc *script.Script) error {
	return s.writeJSON(ScriptFile, sc)
}

func (s *Store) LoadScript() (*script.Script, error) {
	var sc script.Script
	if err := s.readJSON(ScriptFile, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Store) SaveScriptText(text string) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.Path(ScriptTextFile), []byte(text), 0o644)
}

func (s *Store) LoadScriptText() (string, error) {
	data, err := os.ReadFile(s.Path(ScriptTextFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) SaveMarkers(markers []pitch.Marker) error {
	if markers == nil {
		markers = []pitch.Marker{}
	}
	return s.writeJSON(MarkersFile, markers)
}

// LoadMarkers distinguishes absence from emptiness: a missing file returns
// a nil slice, a saved empty list returns an empty one. Cue source
// selection depends on that difference.
func (s *Store) LoadMarkers() ([]pitch.Marker, error) {
	var markers []pitch.Marker
	err := s.readJSON(MarkersFile, &markers)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if markers == nil {
		markers = []pitch.Marker{}
	}
	return markers, nil
}

// SaveWords writes the original-pace transcript; SaveFastWords the
// post-tempo one. Both round times to 3 decimals on disk.
func (s *Store) SaveWords(words []transcript.Word) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return transcript.Save(s.Path(TimestampsFile), words)
}

func (s *Store) LoadWords() ([]transcript.Word, error) {
	return transcript.Load(s.Path(TimestampsFile))
}

func (s *Store) SaveFastWords(words []transcript.Word) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return transcript.Save(s.Path(FastTimestampsFile), words)
}

func (s *Store) LoadFastWords() ([]transcript.Word, error) {
	return transcript.Load(s.Path(FastTimestampsFile))
}

func (s *Store) SaveCues(cues []pitch.Cue) error {
	rounded := make([]pitch.Cue, len(cues))
	for i, c := range cues {
		rounded[i] = pitch.Cue{
			Start:     transcript.Round3(c.Start),
			End:       transcript.Round3(c.End),
			Semitones: c.Semitones,
		}
	}
	return s.writeJSON(CuesFile, rounded)
}

func (s *Store) LoadCues() ([]pitch.Cue, error) {
	var cues []pitch.Cue
	if err := s.readJSON(CuesFile, &cues); err != nil {
		return nil, err
	}
	return cues, nil
}

func (s *Store) SavePlacements(placements []sfx.Placement) error {
	if placements == nil {
		placements = []sfx.Placement{}
	}
	return s.writeJSON(PlacementsFile, placements)
}

func (s *Store) LoadPlacements() ([]sfx.Placement, error) {
	var placements []sfx.Placement
	err := s.readJSON(PlacementsFile, &placements)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return placements, nil
}

func (s *Store) SaveAudio(name string, data []byte) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), data, 0o644)
}
