package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrJobNotFound is returned when a job id has no status entry, either
// because it never existed or its entry expired.
var ErrJobNotFound = errors.New("job not found")

// Job states as reported to the editor.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobStatus is what the editor's poll endpoint returns.
type JobStatus struct {
	JobID     string    `json:"job_id"`
	State     string    `json:"state"`
	Error     string    `json:"error,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	Duration  float64   `json:"duration,omitempty"`
	Cues      int       `json:"cues,omitempty"`
	Warnings  int       `json:"warnings,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// statusTTL keeps finished jobs around long enough for any editor tab to
// pick up the terminal state.
const statusTTL = 24 * time.Hour

// StatusStore tracks job states in redis, shared between the editor
// service (writes queued, reads all) and the worker (writes the rest).
type StatusStore struct {
	client *redis.Client
}

func NewStatusStore(client *redis.Client) *StatusStore {
	return &StatusStore{client: client}
}

func statusKey(jobID string) string {
	return "dropforge:job:" + jobID
}

func (s *StatusStore) Set(ctx context.Context, st JobStatus) error {
	st.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal job status: %w", err)
	}
	if err := s.client.Set(ctx, statusKey(st.JobID), data, statusTTL).Err(); err != nil {
		return fmt.Errorf("store job status %s: %w", st.JobID, err)
	}
	return nil
}

func (s *StatusStore) Get(ctx context.Context, jobID string) (*JobStatus, error) {
	val, err := s.client.Get(ctx, statusKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job status %s: %w", jobID, err)
	}
	var st JobStatus
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("parse job status %s: %w", jobID, err)
	}
	return &st, nil
}
