// Package resynth applies a pitch envelope to narration audio. The praat
// backend resynthesizes locally with TD-PSOLA; the remote backend ships the
// audio and envelope to a shaping service over HTTP.
package resynth

import (
	"context"
	"fmt"

	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/pitch"
)

// Shaper rewrites input audio so its pitch follows the envelope.
type Shaper interface {
	Shape(ctx context.Context, input, output string, env *pitch.Envelope) error
	Name() string
}

// NewShaper picks the backend named in the config.
func NewShaper(cfg config.ResynthConfig) (Shaper, error) {
	switch cfg.Backend {
	case "praat":
		return NewPraatShaper(cfg.PraatBin), nil
	case "remote":
		return NewRemoteShaper(cfg.RemoteURL), nil
	default:
		return nil, fmt.Errorf("unknown resynth backend %q", cfg.Backend)
	}
}
