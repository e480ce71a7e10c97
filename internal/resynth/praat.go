package resynth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dropforge/dropforge/internal/pitch"
)

// PraatShaper shifts pitch with Praat's TD-PSOLA resynthesis: glottal
// pulses are detected, pitch-synchronous windows repositioned, and the
// waveform rebuilt, which leaves unshifted regions untouched. The envelope
// is baked into a generated script and run with praat --run.
type PraatShaper struct {
	bin string
}

func NewPraatShaper(bin string) *PraatShaper {
	if bin == "" {
		bin = "praat"
	}
	return &PraatShaper{bin: bin}
}

func (p *PraatShaper) Name() string { return "praat" }

// Shape expects WAV input, which is what the tempo step emits. An identity
// envelope degenerates to a file copy so runs without cues still produce
// the expected artifact.
func (p *PraatShaper) Shape(ctx context.Context, input, output string, env *pitch.Envelope) error {
	samples := nonUnitySamples(env)
	if len(samples) == 0 {
		return copyFile(input, output)
	}

	script := buildPraatScript(input, output, samples)
	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("dropforge-shape-%d.praat", os.Getpid()))
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("writing praat script: %w", err)
	}
	defer os.Remove(scriptPath)

	cmd := exec.CommandContext(ctx, p.bin, "--run", scriptPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("praat failed: %w (stderr: %s)", err, stderr.String())
	}
	return nil
}

// nonUnitySamples filters the envelope table down to the points that
// actually move pitch. Outside cue regions the factor is exactly 1.0 and
// the original pitch tier already covers those times.
func nonUnitySamples(env *pitch.Envelope) []pitch.Point {
	var samples []pitch.Point
	for _, pt := range env.Table() {
		if pt.Factor != 1.0 {
			samples = append(samples, pt)
		}
	}
	return samples
}

// buildPraatScript emits a script that samples the original pitch contour
// at each envelope point, adds a scaled point to the manipulation's pitch
// tier, and resynthesizes with overlap-add. Points over unvoiced stretches
// are skipped since pitch is undefined there.
func buildPraatScript(input, output string, samples []pitch.Point) string {
	var times, factors []string
	for _, s := range samples {
		times = append(times, strconv.FormatFloat(s.Time, 'f', -1, 64))
		factors = append(factors, strconv.FormatFloat(s.Factor, 'f', -1, 64))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "sound = Read from file: \"%s\"\n", praatQuote(input))
	b.WriteString("selectObject: sound\n")
	b.WriteString("manipulation = To Manipulation: 0.01, 75, 600\n")
	b.WriteString("selectObject: manipulation\n")
	b.WriteString("pitchTier = Extract pitch tier\n")
	b.WriteString("selectObject: sound\n")
	b.WriteString("pitch = To Pitch: 0.0, 75, 600\n")
	fmt.Fprintf(&b, "times# = { %s }\n", strings.Join(times, ", "))
	fmt.Fprintf(&b, "factors# = { %s }\n", strings.Join(factors, ", "))
	b.WriteString("for i from 1 to size (times#)\n")
	b.WriteString("    selectObject: pitch\n")
	b.WriteString("    f0 = Get value at time: times# [i], \"Hertz\", \"Linear\"\n")
	b.WriteString("    if f0 <> undefined and f0 > 0\n")
	b.WriteString("        selectObject: pitchTier\n")
	b.WriteString("        Add point: times# [i], f0 * factors# [i]\n")
	b.WriteString("    endif\n")
	b.WriteString("endfor\n")
	b.WriteString("selectObject: manipulation, pitchTier\n")
	b.WriteString("Replace pitch tier\n")
	b.WriteString("selectObject: manipulation\n")
	b.WriteString("resynth = Get resynthesis (overlap-add)\n")
	b.WriteString("selectObject: resynth\n")
	fmt.Fprintf(&b, "Save as WAV file: \"%s\"\n", praatQuote(output))
	return b.String()
}

// praatQuote escapes a string for a double-quoted Praat literal.
func praatQuote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
