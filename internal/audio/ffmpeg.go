// Package audio drives ffmpeg for the tempo step and the final mixdown.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const sampleRate = 44100

// Runner executes ffmpeg and ffprobe found on PATH.
type Runner struct {
	ffmpegPath  string
	ffprobePath string
}

func NewRunner() (*Runner, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Runner{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// ApplyTempo speeds narration up by resampling. asetrate raises speed and
// pitch together (the chipmunk-adjacent sound the format calls for), then
// aresample brings the stream back to 44100Hz for downstream steps.
func (r *Runner) ApplyTempo(ctx context.Context, input, output string, speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("tempo must be positive, got %v", speed)
	}
	return r.run(ctx, tempoArgs(input, output, speed)...)
}

func tempoArgs(input, output string, speed float64) []string {
	targetRate := int(float64(sampleRate) * speed)
	return []string{
		"-y", "-i", input,
		"-af", fmt.Sprintf("asetrate=%d,aresample=%d", targetRate, sampleRate),
		output,
	}
}

// Overlay is one extra sound dropped onto the voice track.
type Overlay struct {
	Path   string
	At     float64 // seconds into the voice track
	Volume float64
}

// MixRequest describes one mixdown: the voice track plus overlays and
// optional background music under everything.
type MixRequest struct {
	Voice       string
	Overlays    []Overlay
	Music       string
	MusicVolume float64
	Output      string
}

// Mix renders the final audio. With nothing to add the voice passes through
// as a plain copy.
func (r *Runner) Mix(ctx context.Context, req MixRequest) error {
	args := mixArgs(req)
	if args == nil {
		return copyFile(req.Voice, req.Output)
	}
	return r.run(ctx, args...)
}

// mixArgs builds the full ffmpeg invocation for a mix, or nil when there is
// nothing to mix in. Overlays whose files are missing are dropped so one
// deleted sound effect cannot sink the whole render.
func mixArgs(req MixRequest) []string {
	inputs := []string{"-i", req.Voice}
	var filters []string
	var labels []string
	inputIdx := 1

	for _, ov := range req.Overlays {
		if _, err := os.Stat(ov.Path); err != nil {
			slog.Warn("skipping missing overlay", "path", ov.Path)
			continue
		}
		delayMS := int(ov.At * 1000)
		label := fmt.Sprintf("sfx%d", inputIdx-1)
		inputs = append(inputs, "-i", ov.Path)
		filters = append(filters, fmt.Sprintf("[%d]adelay=%d|%d,volume=%g[%s]",
			inputIdx, delayMS, delayMS, ov.Volume, label))
		labels = append(labels, label)
		inputIdx++
	}

	if req.Music != "" {
		if _, err := os.Stat(req.Music); err == nil {
			vol := req.MusicVolume
			if vol <= 0 {
				vol = 0.15
			}
			inputs = append(inputs, "-i", req.Music)
			filters = append(filters, fmt.Sprintf("[%d]volume=%g[bgm]", inputIdx, vol))
			labels = append(labels, "bgm")
			inputIdx++
		} else {
			slog.Warn("skipping missing background music", "path", req.Music)
		}
	}

	if len(filters) == 0 {
		return nil
	}

	mixInputs := "[0]"
	for _, l := range labels {
		mixInputs += "[" + l + "]"
	}
	filters = append(filters, fmt.Sprintf("%samix=inputs=%d:duration=first[out]",
		mixInputs, 1+len(labels)))

	args := append([]string{"-y"}, inputs...)
	return append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[out]",
		req.Output,
	)
}

// ToWav converts any input to the mono 44100Hz WAV the pitch resynthesis
// step expects.
func (r *Runner) ToWav(ctx context.Context, input, output string) error {
	return r.run(ctx, "-y", "-i", input, "-ar", strconv.Itoa(sampleRate), "-ac", "1", output)
}

// Probe returns the duration of an audio file in seconds.
func (r *Runner) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w (stderr: %s)", path, err, stderr.String())
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe duration %q: %w", stdout.String(), err)
	}
	return dur, nil
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	slog.Debug("running ffmpeg", "args", args)
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w (stderr: %s)", err, stderr.String())
	}
	return nil
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
