package sfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dropforge/dropforge/internal/pitch"
)

func writeFakeSound(t *testing.T, dir, category, name string) {
	t.Helper()
	catDir := filepath.Join(dir, category)
	if err := os.MkdirAll(catDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(catDir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFakeSound(t, dir, "emphasis", "vine-boom.mp3")
	writeFakeSound(t, dir, "humor", "sad-trombone.wav")
	writeFakeSound(t, dir, "humor", "notes.txt") // not audio
	writeFakeSound(t, dir, "misc", "honk.ogg")   // unknown category

	sounds, err := ScanLibrary(dir)
	if err != nil {
		t.Fatalf("ScanLibrary: %v", err)
	}
	if len(sounds) != 3 {
		t.Fatalf("got %d sounds, want 3: %+v", len(sounds), sounds)
	}

	boom := sounds[0]
	if boom.ID != "emphasis/vine-boom" || boom.Name != "vine boom" {
		t.Errorf("boom = %+v", boom)
	}
	if boom.Color != "#ff4757" || boom.CategoryLabel != "Emphasis" {
		t.Errorf("boom styling = %+v", boom)
	}

	honk := sounds[len(sounds)-1]
	if honk.Category != "misc" || honk.Color != "#888" || honk.CategoryLabel != "Misc" {
		t.Errorf("unknown category styling = %+v", honk)
	}
}

func TestScanLibraryMissingDir(t *testing.T) {
	sounds, err := ScanLibrary(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if sounds != nil {
		t.Errorf("got %+v, want empty library", sounds)
	}
}

func TestCleanName(t *testing.T) {
	cases := map[string]string{
		"vine-boom-sound-effect": "vine boom",
		"Deep_Boom":              "deep boom",
		"record-scratch-meme":    "record scratch",
		"riser":                  "riser",
	}
	for in, want := range cases {
		if got := cleanName(in); got != want {
			t.Errorf("cleanName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeFakeSound(t, dir, "emphasis", "vine-boom.mp3")
	writeFakeSound(t, dir, "shock", "deep-boom.wav")
	sounds, err := ScanLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}

	s, ok := Find(sounds, "vine-boom")
	if !ok || s.ID != "emphasis/vine-boom" {
		t.Errorf("Find(vine-boom) = %+v ok=%v", s, ok)
	}
	if s, ok := Find(sounds, "Deep Boom"); !ok || s.ID != "shock/deep-boom" {
		t.Errorf("Find(Deep Boom) = %+v ok=%v", s, ok)
	}
	if _, ok := Find(sounds, "airhorn"); ok {
		t.Error("Find(airhorn) should miss")
	}
}

func TestPlaceAtCues(t *testing.T) {
	cues := []pitch.Cue{
		{Start: 4.48, End: 5.02, Semitones: -4},
		{Start: 11.03, End: 11.27, Semitones: -5},
	}
	placements := PlaceAtCues(cues, "sfx/emphasis/vine-boom.wav", 0.7)
	if len(placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(placements))
	}
	if placements[0].Time != 5.02 || placements[1].Time != 11.27 {
		t.Errorf("placements land at %v and %v, want cue ends", placements[0].Time, placements[1].Time)
	}
	for _, p := range placements {
		if p.Volume != 0.7 || p.SFXPath != "sfx/emphasis/vine-boom.wav" {
			t.Errorf("placement = %+v", p)
		}
	}
}

func TestPlaceAtCuesEmpty(t *testing.T) {
	if p := PlaceAtCues(nil, "x.wav", 0.7); len(p) != 0 {
		t.Errorf("got %+v, want none", p)
	}
}
