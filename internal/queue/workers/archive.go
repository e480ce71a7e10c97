package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/dropforge/dropforge/internal/archive"
	"github.com/dropforge/dropforge/internal/queue"
)

// ArchiveWorker embeds finished scripts into the archive. Runs on the low
// queue; failure retries are harmless since Save upserts by id.
type ArchiveWorker struct {
	archive *archive.Service
}

func NewArchiveWorker(svc *archive.Service) *ArchiveWorker {
	return &ArchiveWorker{archive: svc}
}

func (w *ArchiveWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ArchiveEmbedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal archive payload: %w", err)
	}

	if w.archive == nil {
		slog.Debug("archive disabled, skipping embed", "run_id", payload.RunID)
		return nil
	}

	slog.Info("archiving script", "run_id", payload.RunID, "topic", payload.Topic)
	err := w.archive.Save(ctx, archive.Entry{
		ID:         payload.RunID,
		RunID:      payload.RunID,
		Topic:      payload.Topic,
		Title:      payload.Title,
		ScriptText: payload.ScriptText,
	})
	if err != nil {
		return fmt.Errorf("archive script %s: %w", payload.RunID, err)
	}
	return nil
}
