package sfx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const sampleRate = 44100

// Generators holds the built-in procedural effects, keyed by "category/name".
// They exist so the editor has a usable library before anyone downloads
// real effect packs.
var Generators = map[string]func() []float64{
	"emphasis/vine-boom":   genVineBoom,
	"emphasis/bass-drop":   genBassDrop,
	"emphasis/metal-clang": genMetalClang,
	"humor/comedy-ding":    genComedyDing,
	"humor/record-scratch": genRecordScratch,
	"humor/sad-trombone":   genSadTrombone,
	"shock/deep-boom":      genDeepBoom,
	"shock/dramatic-hit":   genDramaticHit,
	"transition/riser":     genRiser,
	"transition/whoosh":    genWhoosh,
}

// GenerateLibrary renders every built-in effect under dir.
func GenerateLibrary(dir string) error {
	var g errgroup.Group
	for name, gen := range Generators {
		g.Go(func() error {
			path := filepath.Join(dir, name+".wav")
			if err := writeWAV(path, gen()); err != nil {
				return fmt.Errorf("generating %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// writeWAV stores float samples in [-1, 1] as 16-bit mono PCM.
func writeWAV(path string, samples []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	dataSize := uint32(len(samples) * 2)
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, 36+dataSize)
	w.WriteString("WAVE")
	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w, binary.LittleEndian, uint16(1)) // mono
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(w, binary.LittleEndian, uint16(2))
	binary.Write(w, binary.LittleEndian, uint16(16))
	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, dataSize)

	for _, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		binary.Write(w, binary.LittleEndian, int16(s*32767))
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// adsr builds an attack/decay/sustain/release gain curve over n samples.
func adsr(n int, attack, decay, sustain, release float64) []float64 {
	a := int(attack * sampleRate)
	d := int(decay * sampleRate)
	r := int(release * sampleRate)
	s := n - a - d - r
	if s < 0 {
		s = 0
	}

	env := make([]float64, 0, n)
	for i := 0; i < a; i++ {
		env = append(env, float64(i)/math.Max(1, float64(a)))
	}
	for i := 0; i < d; i++ {
		env = append(env, 1.0-(1.0-sustain)*float64(i)/math.Max(1, float64(d)))
	}
	for i := 0; i < s; i++ {
		env = append(env, sustain)
	}
	for i := 0; i < r; i++ {
		env = append(env, sustain*(1.0-float64(i)/math.Max(1, float64(r))))
	}
	for len(env) < n {
		env = append(env, 0)
	}
	return env[:n]
}

func applyEnv(samples, env []float64) []float64 {
	out := make([]float64, len(samples))
	for i := range samples {
		out[i] = samples[i] * env[i]
	}
	return out
}

// mixTracks sums tracks and normalizes the result to peak 1.
func mixTracks(tracks ...[]float64) []float64 {
	length := 0
	for _, t := range tracks {
		if len(t) > length {
			length = len(t)
		}
	}
	out := make([]float64, length)
	for _, t := range tracks {
		for i, s := range t {
			out[i] += s
		}
	}
	peak := 0.0
	for _, s := range out {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak == 0 {
		peak = 1
	}
	for i := range out {
		out[i] /= peak
	}
	return out
}

func normalize(samples []float64) []float64 {
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak == 0 {
		peak = 1
	}
	out := make([]float64, len(samples))
	for i := range samples {
		out[i] = samples[i] / peak
	}
	return out
}

// Sub-bass hit whose fundamental falls from 80Hz, soft-clipped for punch.
func genVineBoom() []float64 {
	n := int(0.8 * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		freq := 80 * math.Exp(-t*3)
		s := math.Sin(2 * math.Pi * freq * t)
		s += 0.5 * math.Sin(2*math.Pi*freq*2*t)
		samples[i] = math.Tanh(s * 2)
	}
	return applyEnv(samples, adsr(n, 0.005, 0.1, 0.6, 0.5))
}

func genBassDrop() []float64 {
	n := int(1.2 * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		freq := 200*math.Exp(-t*2) + 30
		s := math.Sin(2 * math.Pi * freq * t)
		s += 0.4 * math.Sin(2*math.Pi*freq*0.5*t)
		samples[i] = math.Tanh(s * 1.5)
	}
	return applyEnv(samples, adsr(n, 0.01, 0.2, 0.5, 0.7))
}

// Inharmonic partials with frequency-dependent decay, like struck metal.
func genMetalClang() []float64 {
	n := int(0.6 * sampleRate)
	freqs := []float64{800, 1340, 2100, 3200, 4500}
	tracks := make([][]float64, 0, len(freqs))
	for _, f := range freqs {
		track := make([]float64, n)
		for i := range track {
			t := float64(i) / sampleRate
			s := math.Sin(2*math.Pi*f*t + rand.Float64()*0.1)
			track[i] = s * math.Exp(-t*(4+f/1000))
		}
		tracks = append(tracks, track)
	}
	return applyEnv(mixTracks(tracks...), adsr(n, 0.001, 0.05, 0.3, 0.4))
}

func genComedyDing() []float64 {
	n := int(0.5 * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		s := math.Sin(2 * math.Pi * 2400 * t)
		s += 0.5 * math.Sin(2*math.Pi*3600*t)
		samples[i] = s * math.Exp(-t*6)
	}
	return applyEnv(samples, adsr(n, 0.001, 0.05, 0.2, 0.3))
}

func genRecordScratch() []float64 {
	dur := 0.4
	n := int(dur * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		freq := 300 + 2000*(1-t/dur)
		s := rand.Float64()*2 - 1
		samples[i] = s * math.Sin(2*math.Pi*freq*t)
	}
	return applyEnv(samples, adsr(n, 0.005, 0.05, 0.7, 0.15))
}

// Four descending notes with light vibrato: Bb4, F4, D4, Bb3.
func genSadTrombone() []float64 {
	n := int(1.5 * sampleRate)
	notes := []struct {
		freq float64
		dur  float64
	}{
		{466, 0.35}, {349, 0.35}, {294, 0.35}, {233, 0.55},
	}
	samples := make([]float64, n)
	pos := 0
	for _, note := range notes {
		nn := int(note.dur * sampleRate)
		for i := 0; i < nn && pos+i < n; i++ {
			t := float64(i) / sampleRate
			s := math.Sin(2 * math.Pi * note.freq * t)
			s += 0.3 * math.Sin(2*math.Pi*note.freq*2*t)
			s += 0.15 * math.Sin(2*math.Pi*note.freq*3*t)
			s *= 1 + 0.02*math.Sin(2*math.Pi*5*t)

			e := math.Min(1, float64(i)/(0.02*sampleRate))
			if tail := float64(i) - float64(nn)*0.7; tail > 0 {
				e *= math.Max(0, 1-tail/(float64(nn)*0.3))
			}
			samples[pos+i] = s * e * 0.7
		}
		pos += nn
	}
	return normalize(samples)
}

func genDeepBoom() []float64 {
	n := int(1.5 * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		freq := 40*math.Exp(-t*1.5) + 20
		s := math.Sin(2 * math.Pi * freq * t)
		s += 0.7 * math.Sin(2*math.Pi*freq*0.5*t)
		s += 0.3 * (rand.Float64()*2 - 1) * math.Exp(-t*4)
		samples[i] = math.Tanh(s * 2.5)
	}
	return applyEnv(samples, adsr(n, 0.005, 0.3, 0.4, 0.9))
}

// Orchestra-hit style stack of a minor chord across octaves plus a noise
// burst transient.
func genDramaticHit() []float64 {
	n := int(1.0 * sampleRate)
	freqs := []float64{130, 165, 196, 262, 330, 392, 523, 660, 784}
	tracks := make([][]float64, 0, len(freqs)+1)
	for _, f := range freqs {
		track := make([]float64, n)
		for i := range track {
			t := float64(i) / sampleRate
			track[i] = 0.5 * math.Sin(2*math.Pi*f*t) * math.Exp(-t*2)
		}
		tracks = append(tracks, track)
	}
	noiseTrack := make([]float64, n)
	for i := range noiseTrack {
		t := float64(i) / sampleRate
		noiseTrack[i] = (rand.Float64()*2 - 1) * 0.4 * math.Exp(-t*8)
	}
	tracks = append(tracks, noiseTrack)
	return applyEnv(mixTracks(tracks...), adsr(n, 0.003, 0.1, 0.3, 0.6))
}

func genRiser() []float64 {
	dur := 1.5
	n := int(dur * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		progress := t / dur
		freq := 200 * math.Exp(progress*3)
		s := math.Sin(2 * math.Pi * freq * t)
		s += 0.3 * (rand.Float64()*2 - 1) * progress
		samples[i] = s * progress
	}
	return applyEnv(samples, adsr(n, 1.2, 0.0, 1.0, 0.1))
}

func genWhoosh() []float64 {
	dur := 0.5
	n := int(dur * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		progress := t / dur
		s := rand.Float64()*2 - 1
		center := 500 + 4000*math.Sin(progress*math.Pi)
		s *= math.Sin(2 * math.Pi * center * t)
		samples[i] = s * math.Sin(progress*math.Pi)
	}
	return normalize(samples)
}
