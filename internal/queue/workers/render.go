// Package workers holds the asynq task handlers the worker binary runs.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/dropforge/dropforge/internal/history"
	"github.com/dropforge/dropforge/internal/pipeline"
	"github.com/dropforge/dropforge/internal/queue"
)

// RenderWorker executes queued pipeline runs and publishes their status
// for the editor to poll. History and the archive hand-off are optional.
type RenderWorker struct {
	pipeline    *pipeline.Pipeline
	status      *queue.StatusStore
	history     *history.Service
	queueClient *queue.Client
}

func NewRenderWorker(p *pipeline.Pipeline, status *queue.StatusStore, hist *history.Service, qc *queue.Client) *RenderWorker {
	return &RenderWorker{
		pipeline:    p,
		status:      status,
		history:     hist,
		queueClient: qc,
	}
}

func (w *RenderWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.RenderRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal render payload: %w", err)
	}

	slog.Info("processing render job", "job_id", payload.JobID, "reuse", payload.Reuse, "topic", payload.Topic)
	w.setStatus(ctx, queue.JobStatus{JobID: payload.JobID, State: queue.StatusRunning})

	res, err := w.pipeline.Run(ctx, pipeline.Options{
		Topic:      payload.Topic,
		Reuse:      payload.Reuse,
		Speed:      payload.Speed,
		Provider:   payload.Provider,
		Voice:      payload.Voice,
		ManualCues: payload.ManualCues,
		Placements: payload.Placements,
	})
	if err != nil {
		w.setStatus(ctx, queue.JobStatus{JobID: payload.JobID, State: queue.StatusFailed, Error: err.Error()})
		w.record(ctx, payload, nil, err)
		return fmt.Errorf("render run: %w", err)
	}

	w.setStatus(ctx, queue.JobStatus{
		JobID:    payload.JobID,
		State:    queue.StatusCompleted,
		RunID:    res.RunID,
		Duration: res.Duration,
		Cues:     len(res.Cues),
		Warnings: len(res.Report.Warnings),
	})
	w.record(ctx, payload, res, nil)

	if w.queueClient != nil && res.ScriptText != "" && !payload.Reuse {
		err := w.queueClient.EnqueueArchiveEmbed(queue.ArchiveEmbedPayload{
			RunID:      res.RunID,
			Topic:      payload.Topic,
			ScriptText: res.ScriptText,
		})
		if err != nil {
			slog.Warn("enqueue archive embed", "run_id", res.RunID, "error", err)
		}
	}
	return nil
}

func (w *RenderWorker) setStatus(ctx context.Context, st queue.JobStatus) {
	if w.status == nil {
		return
	}
	if err := w.status.Set(ctx, st); err != nil {
		slog.Warn("publishing job status", "job_id", st.JobID, "error", err)
	}
}

func (w *RenderWorker) record(ctx context.Context, payload queue.RenderRunPayload, res *pipeline.Result, runErr error) {
	mode := "fresh"
	if payload.Reuse {
		mode = "reuse"
	}
	rec := history.Record{
		Topic:  payload.Topic,
		Mode:   mode,
		Status: "completed",
	}
	if runErr != nil {
		rec.ID = payload.JobID
		rec.Status = "failed"
		rec.Error = runErr.Error()
	} else {
		rec.ID = res.RunID
		rec.Provider = res.Provider
		rec.CueSource = res.CueSource
		rec.CueCount = len(res.Cues)
		rec.Warnings = len(res.Report.Warnings)
		rec.Duration = res.Duration
		rec.CostUSD = res.CostUSD
	}
	if err := w.history.Save(ctx, rec); err != nil {
		slog.Warn("recording run history", "error", err)
	}
}
