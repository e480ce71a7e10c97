// Package queue carries render jobs from the editor service to the worker
// over asynq, and tracks their status in redis so the editor can poll.
package queue

import (
	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/sfx"
)

const (
	TypeRenderRun    = "render:run"
	TypeArchiveEmbed = "archive:embed"
)

// RenderRunPayload is one pipeline run requested by the editor or CLI.
// ManualCues non-nil means the editor's cue overrides win the source
// selection, even when empty.
type RenderRunPayload struct {
	JobID      string          `json:"job_id"`
	Topic      string          `json:"topic,omitempty"`
	Reuse      bool            `json:"reuse"`
	Speed      float64         `json:"speed,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	Voice      string          `json:"voice,omitempty"`
	ManualCues []pitch.Cue     `json:"manual_cues,omitempty"`
	Placements []sfx.Placement `json:"sfx_placements,omitempty"`
}

// ArchiveEmbedPayload asks the worker to embed and archive one finished
// script in the background, off the render queue's critical path.
type ArchiveEmbedPayload struct {
	RunID      string `json:"run_id"`
	Topic      string `json:"topic"`
	Title      string `json:"title,omitempty"`
	ScriptText string `json:"script_text"`
}
