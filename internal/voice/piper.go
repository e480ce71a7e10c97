package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dropforge/dropforge/internal/config"
)

// Piper synthesizes speech with a local Piper binary. Free and offline,
// with estimated word timestamps since Piper reports no timing data.
type Piper struct {
	bin   string
	model string
}

func NewPiper(cfg config.VoiceConfig) *Piper {
	bin := cfg.PiperBin
	if bin == "" {
		bin = "piper"
	}
	return &Piper{bin: bin, model: cfg.PiperModel}
}

func (p *Piper) Name() string { return "piper" }

// Synthesize pipes text into Piper via stdin and captures the WAV it writes
// to stdout.
func (p *Piper) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if p.model == "" {
		return nil, fmt.Errorf("piper model path is required (set VOICE_PIPER_MODEL)")
	}

	cmd := exec.CommandContext(ctx, p.bin, "--model", p.model, "--output_file", "-")
	cmd.Stdin = strings.NewReader(req.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w (stderr: %s)", err, stderr.String())
	}

	return &Result{
		Audio:       stdout.Bytes(),
		ContentType: "audio/wav",
		Words:       EstimateTimings(req.Text, 0),
		Estimated:   true,
	}, nil
}
