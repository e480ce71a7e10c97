// Package voice turns narration text into audio plus word-level timestamps.
// ElevenLabs returns real character alignment; the OpenAI and Piper backends
// have no timing data, so their word timestamps are estimated from text.
package voice

import (
	"context"
	"fmt"

	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/transcript"
)

// Request holds the parameters for one synthesis call.
type Request struct {
	Text  string
	Voice string // backend-specific voice id or name, empty for the configured default
}

// Result holds the generated audio and the word timings that go with it.
type Result struct {
	Audio       []byte
	ContentType string // "audio/mpeg" (ElevenLabs, OpenAI) or "audio/wav" (Piper)
	Words       []transcript.Word
	Estimated   bool // true when Words came from text heuristics, not the backend
}

// Synthesizer is the interface for text-to-speech backends.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// NewSynthesizer picks the backend named in the config.
func NewSynthesizer(cfg config.VoiceConfig) (Synthesizer, error) {
	switch cfg.Backend {
	case "elevenlabs":
		return NewElevenLabs(cfg), nil
	case "openai":
		return NewOpenAITTS(cfg), nil
	case "piper":
		return NewPiper(cfg), nil
	default:
		return nil, fmt.Errorf("unknown voice backend %q", cfg.Backend)
	}
}
