// Package history records one row per pipeline run in Postgres. The
// database is optional: a nil service is a no-op and the pipeline never
// depends on a row being written.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropforge/dropforge/internal/config"
)

// NewPool connects to Postgres with the configured pool bounds.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the run history and script archive tables. pgvector must
// already be installed in the database; the extension create is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			topic TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			cue_source TEXT NOT NULL DEFAULT '',
			cue_count INT NOT NULL DEFAULT 0,
			warning_count INT NOT NULL DEFAULT 0,
			duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
			cost_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS script_archive (
			id UUID PRIMARY KEY,
			run_id UUID REFERENCES runs(id),
			topic TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			script_text TEXT NOT NULL,
			embedding vector(1536),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating history schema: %w", err)
		}
	}
	return nil
}

// Record is one pipeline run as stored.
type Record struct {
	ID        string
	Topic     string
	Mode      string // "fresh" or "reuse"
	Provider  string
	CueSource string
	CueCount  int
	Warnings  int
	Duration  float64
	CostUSD   float64
	Status    string // "completed" or "failed"
	Error     string
	CreatedAt time.Time
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Save inserts one run record. Safe on a nil service.
func (s *Service) Save(ctx context.Context, rec Record) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO runs (id, topic, mode, provider, cue_source, cue_count, warning_count, duration_seconds, cost_usd, status, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Topic, rec.Mode, rec.Provider, rec.CueSource,
		rec.CueCount, rec.Warnings, rec.Duration, rec.CostUSD, rec.Status, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// Recent returns the newest runs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, topic, mode, provider, cue_source, cue_count, warning_count, duration_seconds, cost_usd, status, error, created_at
		 FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Topic, &r.Mode, &r.Provider, &r.CueSource,
			&r.CueCount, &r.Warnings, &r.Duration, &r.CostUSD, &r.Status, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
