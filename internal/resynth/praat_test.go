package resynth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/pitch"
)

func TestNonUnitySamples(t *testing.T) {
	env := pitch.NewEnvelope([]pitch.Cue{{Start: 1.0, End: 2.0, Semitones: -4}}, 3.0)
	samples := nonUnitySamples(env)
	if len(samples) == 0 {
		t.Fatal("expected shifted samples inside the cue region")
	}
	for _, s := range samples {
		if s.Factor == 1.0 {
			t.Errorf("unity factor at %v should have been filtered", s.Time)
		}
		if s.Time < 1.0-pitch.RampDuration-1e-9 || s.Time > 2.0+pitch.RampDuration+1e-9 {
			t.Errorf("sample at %v is outside the cue and its ramps", s.Time)
		}
	}
}

func TestNonUnitySamplesIdentityEnvelope(t *testing.T) {
	env := pitch.NewEnvelope(nil, 5.0)
	if samples := nonUnitySamples(env); len(samples) != 0 {
		t.Errorf("identity envelope produced %d samples", len(samples))
	}
}

func TestBuildPraatScript(t *testing.T) {
	env := pitch.NewEnvelope([]pitch.Cue{{Start: 1.0, End: 2.0, Semitones: -4}}, 3.0)
	script := buildPraatScript("/tmp/in.wav", "/tmp/out.wav", nonUnitySamples(env))

	for _, want := range []string{
		`Read from file: "/tmp/in.wav"`,
		"To Manipulation: 0.01, 75, 600",
		"Extract pitch tier",
		`To Pitch: 0.0, 75, 600`,
		"Replace pitch tier",
		"Get resynthesis (overlap-add)",
		`Save as WAV file: "/tmp/out.wav"`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}

	// The sustain factor for -4 semitones must appear in the factor vector.
	sustain := strconv.FormatFloat(pitch.SemitoneFactor(-4), 'f', -1, 64)
	if !strings.Contains(script, sustain) {
		t.Errorf("script missing sustain factor %s", sustain)
	}

	times := 0
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(line, "times# = {") {
			times = strings.Count(line, ",") + 1
		}
	}
	if times == 0 {
		t.Error("times vector is empty")
	}
}

func TestPraatQuote(t *testing.T) {
	if got := praatQuote(`a"b`); got != `a""b` {
		t.Errorf("praatQuote = %q", got)
	}
}

func TestShapeIdentityEnvelopeCopies(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	output := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(input, []byte("RIFF fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No cues means no praat invocation, so a missing binary must not matter.
	shaper := NewPraatShaper("/definitely/not/praat")
	env := pitch.NewEnvelope(nil, 2.0)
	if err := shaper.Shape(context.Background(), input, output, env); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "RIFF fake" {
		t.Errorf("output = %q, want copy of input", got)
	}
}

func TestRemoteShaper(t *testing.T) {
	var gotEnvelope string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shape" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotEnvelope = r.FormValue("envelope")
		f, _, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotFile, _ = io.ReadAll(f)
		w.Write([]byte("shaped wav"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	output := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(input, []byte("RIFF fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := pitch.NewEnvelope([]pitch.Cue{{Start: 0.5, End: 1.0, Semitones: -5}}, 2.0)
	shaper := NewRemoteShaper(srv.URL)
	if err := shaper.Shape(context.Background(), input, output, env); err != nil {
		t.Fatalf("Shape: %v", err)
	}

	if string(gotFile) != "RIFF fake" {
		t.Errorf("server received %q", gotFile)
	}
	if !strings.Contains(gotEnvelope, `"time"`) || !strings.Contains(gotEnvelope, `"factor"`) {
		t.Errorf("envelope field = %s", gotEnvelope)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "shaped wav" {
		t.Errorf("output = %q", got)
	}
}

func TestNewShaperUnknownBackend(t *testing.T) {
	if _, err := NewShaper(config.ResynthConfig{Backend: "tuner"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if s, err := NewShaper(config.ResynthConfig{Backend: "praat"}); err != nil || s.Name() != "praat" {
		t.Errorf("praat backend: %v %v", s, err)
	}
	if s, err := NewShaper(config.ResynthConfig{Backend: "remote"}); err != nil || s.Name() != "remote" {
		t.Errorf("remote backend: %v %v", s, err)
	}
}
