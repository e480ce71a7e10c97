package sfx

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := []float64{0, 0.5, 1.0, -1.0, 2.0, -2.0} // last two must clip
	if err := writeWAV(path, samples); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad header: %q", data[:12])
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 44100 {
		t.Errorf("sample rate = %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d", bits)
	}
	if size := binary.LittleEndian.Uint32(data[40:44]); size != uint32(len(samples)*2) {
		t.Errorf("data size = %d, want %d", size, len(samples)*2)
	}

	pcm := data[44:]
	if v := int16(binary.LittleEndian.Uint16(pcm[4:6])); v != 32767 {
		t.Errorf("1.0 encoded as %d, want 32767", v)
	}
	if v := int16(binary.LittleEndian.Uint16(pcm[8:10])); v != 32767 {
		t.Errorf("2.0 should clip to 32767, got %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(pcm[10:12])); v != -32767 {
		t.Errorf("-2.0 should clip to -32767, got %d", v)
	}
}

func TestADSR(t *testing.T) {
	n := sampleRate // one second
	env := adsr(n, 0.1, 0.1, 0.5, 0.2)
	if len(env) != n {
		t.Fatalf("envelope length = %d, want %d", len(env), n)
	}
	if env[0] != 0 {
		t.Errorf("attack starts at %v, want 0", env[0])
	}
	// End of attack is full level.
	attackEnd := int(0.1 * sampleRate)
	if env[attackEnd-1] < 0.95 {
		t.Errorf("attack peak = %v", env[attackEnd-1])
	}
	// Middle of sustain holds the sustain level.
	if got := env[n/2]; got != 0.5 {
		t.Errorf("sustain = %v, want 0.5", got)
	}
	// Release decays toward zero.
	if last := env[n-1]; last > 0.01 {
		t.Errorf("release end = %v, want near 0", last)
	}
}

func TestADSRShortBuffer(t *testing.T) {
	// Segments longer than the buffer must not panic or overrun.
	env := adsr(100, 1.0, 1.0, 0.5, 1.0)
	if len(env) != 100 {
		t.Fatalf("envelope length = %d, want 100", len(env))
	}
}

func TestGeneratorsProduceSound(t *testing.T) {
	for name, gen := range Generators {
		samples := gen()
		if len(samples) == 0 {
			t.Errorf("%s produced no samples", name)
			continue
		}
		dur := float64(len(samples)) / sampleRate
		if dur < 0.3 || dur > 2.0 {
			t.Errorf("%s duration = %vs, outside expected range", name, dur)
		}
		peak := 0.0
		for _, s := range samples {
			if s > peak {
				peak = s
			}
			if -s > peak {
				peak = -s
			}
		}
		if peak == 0 {
			t.Errorf("%s is silent", name)
		}
	}
}

func TestGenerateLibrary(t *testing.T) {
	dir := t.TempDir()
	if err := GenerateLibrary(dir); err != nil {
		t.Fatalf("GenerateLibrary: %v", err)
	}

	sounds, err := ScanLibrary(dir)
	if err != nil {
		t.Fatalf("ScanLibrary: %v", err)
	}
	if len(sounds) != len(Generators) {
		t.Fatalf("scanned %d sounds, want %d", len(sounds), len(Generators))
	}
	if _, ok := Find(sounds, "vine-boom"); !ok {
		t.Error("generated library should contain the vine boom")
	}
}
