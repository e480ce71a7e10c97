package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempoArgs(t *testing.T) {
	args := tempoArgs("voice.mp3", "voice_fast.wav", 1.2)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "asetrate=52920,aresample=44100") {
		t.Errorf("1.2x tempo filter wrong: %s", joined)
	}
	if args[len(args)-1] != "voice_fast.wav" {
		t.Errorf("output should be last arg, got %v", args)
	}
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMixArgs(t *testing.T) {
	dir := t.TempDir()
	boom := touch(t, dir, "vine-boom.mp3")
	ding := touch(t, dir, "comedy-ding.mp3")

	args := mixArgs(MixRequest{
		Voice: "voice.wav",
		Overlays: []Overlay{
			{Path: boom, At: 5.02, Volume: 0.7},
			{Path: ding, At: 11.27, Volume: 0.5},
		},
		Output: "final_mix.wav",
	})
	if args == nil {
		t.Fatal("expected mix args, got pass-through")
	}
	graph := ""
	for i, a := range args {
		if a == "-filter_complex" {
			graph = args[i+1]
		}
	}
	if !strings.Contains(graph, "[1]adelay=5020|5020,volume=0.7[sfx0]") {
		t.Errorf("first overlay filter wrong: %s", graph)
	}
	if !strings.Contains(graph, "[2]adelay=11270|11270,volume=0.5[sfx1]") {
		t.Errorf("second overlay filter wrong: %s", graph)
	}
	if !strings.Contains(graph, "[0][sfx0][sfx1]amix=inputs=3:duration=first[out]") {
		t.Errorf("amix stage wrong: %s", graph)
	}
}

func TestMixArgsSkipsMissingOverlays(t *testing.T) {
	dir := t.TempDir()
	boom := touch(t, dir, "vine-boom.mp3")

	args := mixArgs(MixRequest{
		Voice: "voice.wav",
		Overlays: []Overlay{
			{Path: filepath.Join(dir, "does-not-exist.mp3"), At: 1.0, Volume: 0.7},
			{Path: boom, At: 5.0, Volume: 0.7},
		},
		Output: "final_mix.wav",
	})
	graph := ""
	for i, a := range args {
		if a == "-filter_complex" {
			graph = args[i+1]
		}
	}
	if strings.Contains(graph, "does-not-exist") {
		t.Errorf("missing overlay leaked into graph: %s", graph)
	}
	// Only the voice and one surviving overlay feed the mix.
	if !strings.Contains(graph, "amix=inputs=2:duration=first") {
		t.Errorf("input count should reflect surviving overlays: %s", graph)
	}
}

func TestMixArgsNothingToMix(t *testing.T) {
	args := mixArgs(MixRequest{Voice: "voice.wav", Output: "out.wav"})
	if args != nil {
		t.Errorf("no overlays and no music should be a pass-through, got %v", args)
	}
}

func TestMixArgsBackgroundMusic(t *testing.T) {
	dir := t.TempDir()
	music := touch(t, dir, "lofi.mp3")

	args := mixArgs(MixRequest{
		Voice:       "voice.wav",
		Music:       music,
		MusicVolume: 0.15,
		Output:      "out.wav",
	})
	graph := ""
	for i, a := range args {
		if a == "-filter_complex" {
			graph = args[i+1]
		}
	}
	if !strings.Contains(graph, "volume=0.15[bgm]") {
		t.Errorf("music volume stage missing: %s", graph)
	}
	if !strings.Contains(graph, "[0][bgm]amix=inputs=2:duration=first[out]") {
		t.Errorf("amix stage wrong: %s", graph)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	if err := os.WriteFile(src, []byte("RIFF data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "RIFF data" {
		t.Errorf("copied content = %q", got)
	}
}
