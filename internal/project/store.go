// Package project owns the on-disk layout of a run: every artifact the
// pipeline writes and the editor reads lives under one project directory.
package project

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Artifact filenames within a project directory.
const (
	ScriptFile         = "script.json"
	ScriptTextFile     = "script.txt"
	MarkersFile        = "pitch_markers.json"
	TimestampsFile     = "word_timestamps.json"
	FastTimestampsFile = "word_timestamps_fast.json"
	CuesFile           = "pitch_cues.json"
	PlacementsFile     = "sfx_placements.json"
	StateFile          = "editor_state.json"
	VoiceFile          = "voice.mp3"
	FastVoiceFile      = "voice_fast.wav"
	ShapedVoiceFile    = "voice_shaped.wav"
	MixFile            = "final_mix.wav"

	lockFile = ".dropforge.lock"
)

// Store reads and writes run artifacts under one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Path returns the absolute location of a named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// EnsureDir creates the project directory if needed.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Lock takes the project lock so two runs cannot interleave artifact
// writes. The returned release function must be called when the run ends.
func (s *Store) Lock() (release func(), err error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}
	fl := flock.New(s.Path(lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring project lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("project %s is locked by another run", s.dir)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("releasing project lock", "error", err)
		}
	}, nil
}

// writeJSON writes indented JSON through a temp file and rename, so a
// crashed run never leaves a half-written artifact for the editor to read.
func (s *Store) writeJSON(name string, v any) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
