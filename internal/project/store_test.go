package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/script"
	"github.com/dropforge/dropforge/internal/sfx"
	"github.com/dropforge/dropforge/internal/transcript"
)

func TestScriptRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	sc := &script.Script{
		Title:      "The Petabyte Problem",
		FullScript: "Data centers hold petabytes.",
		PitchDrops: []pitch.Marker{{Phrase: "petabytes", Semitones: -4}},
	}
	if err := s.SaveScript(sc); err != nil {
		t.Fatalf("SaveScript: %v", err)
	}
	got, err := s.LoadScript()
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if got.Title != sc.Title || len(got.PitchDrops) != 1 || got.PitchDrops[0].Phrase != "petabytes" {
		t.Errorf("got %+v", got)
	}
}

func TestMarkersPresenceVsEmptiness(t *testing.T) {
	s := NewStore(t.TempDir())

	markers, err := s.LoadMarkers()
	if err != nil {
		t.Fatalf("LoadMarkers on fresh project: %v", err)
	}
	if markers != nil {
		t.Errorf("missing file should load as nil, got %+v", markers)
	}

	if err := s.SaveMarkers([]pitch.Marker{}); err != nil {
		t.Fatalf("SaveMarkers: %v", err)
	}
	markers, err = s.LoadMarkers()
	if err != nil {
		t.Fatalf("LoadMarkers after empty save: %v", err)
	}
	if markers == nil {
		t.Error("saved empty list should load as empty, not nil")
	}
	if len(markers) != 0 {
		t.Errorf("got %+v", markers)
	}
}

func TestCuesRoundOnDisk(t *testing.T) {
	s := NewStore(t.TempDir())
	cues := []pitch.Cue{{Start: 10.416666666666666, End: 10.833333333333334, Semitones: -4}}
	if err := s.SaveCues(cues); err != nil {
		t.Fatalf("SaveCues: %v", err)
	}

	raw, err := os.ReadFile(s.Path(CuesFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "10.417") {
		t.Errorf("times should round to 3 decimals on disk:\n%s", raw)
	}

	got, err := s.LoadCues()
	if err != nil {
		t.Fatalf("LoadCues: %v", err)
	}
	if got[0].Start != 10.417 || got[0].End != 10.833 {
		t.Errorf("got %+v", got[0])
	}
}

func TestWordsRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	words := []transcript.Word{{Text: "petabytes", Start: 4.48, End: 5.02}}
	if err := s.SaveFastWords(words); err != nil {
		t.Fatalf("SaveFastWords: %v", err)
	}
	got, err := s.LoadFastWords()
	if err != nil {
		t.Fatalf("LoadFastWords: %v", err)
	}
	if len(got) != 1 || got[0] != words[0] {
		t.Errorf("got %+v", got)
	}
}

func TestSaveStateMirrorsPlacements(t *testing.T) {
	s := NewStore(t.TempDir())
	st := &State{
		BaseSpeed:  1.2,
		Placements: []sfx.Placement{{SFXPath: "sfx/emphasis/vine-boom.wav", Time: 5.02, Volume: 0.7}},
	}
	if err := s.SaveState(st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if st.SavedAt.IsZero() {
		t.Error("SaveState should stamp SavedAt")
	}

	placements, err := s.LoadPlacements()
	if err != nil {
		t.Fatalf("LoadPlacements: %v", err)
	}
	if len(placements) != 1 || placements[0].Time != 5.02 {
		t.Errorf("placements = %+v", placements)
	}

	got, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got == nil || got.BaseSpeed != 1.2 {
		t.Errorf("state = %+v", got)
	}
}

func TestLoadStateFresh(t *testing.T) {
	s := NewStore(t.TempDir())
	st, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st != nil {
		t.Errorf("fresh project state = %+v, want nil", st)
	}
}

func TestSaveStateLastWriteWins(t *testing.T) {
	s := NewStore(t.TempDir())
	first := &State{SavedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), BaseSpeed: 1.0}
	second := &State{SavedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), BaseSpeed: 1.5}
	if err := s.SaveState(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(second); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseSpeed != 1.5 {
		t.Errorf("latest write should win, got %+v", got)
	}
}

func TestLockExcludesSecondRun(t *testing.T) {
	s := NewStore(t.TempDir())
	release, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	if _, err := s.Lock(); err == nil {
		t.Error("second lock on the same project should fail")
	}

	release()
	release2, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	release2()
}

func TestWriteJSONAtomicLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.SaveMarkers([]pitch.Marker{{Phrase: "boom", Semitones: -4}}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, MarkersFile)); err != nil {
		t.Errorf("markers file missing: %v", err)
	}
}
