package main

import (
	"context"
	"log/slog"

	"github.com/dropforge/dropforge/internal/archive"
	"github.com/dropforge/dropforge/internal/audio"
	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/history"
	"github.com/dropforge/dropforge/internal/notify"
	"github.com/dropforge/dropforge/internal/pipeline"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/resynth"
	"github.com/dropforge/dropforge/internal/script"
	"github.com/dropforge/dropforge/internal/voice"
)

// runtime bundles everything a CLI run needs. Database-backed features
// come up only when DATABASE_URL is set; their absence is not an error.
type runtime struct {
	cfg      *config.Config
	store    *project.Store
	pipeline *pipeline.Pipeline
	history  *history.Service
	archive  *archive.Service
	close    func()
}

func buildRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	store := project.NewStore(cfg.Project.Dir)

	synth, err := voice.NewSynthesizer(cfg.Voice)
	if err != nil {
		return nil, err
	}
	shaper, err := resynth.NewShaper(cfg.Resynth)
	if err != nil {
		return nil, err
	}
	runner, err := audio.NewRunner()
	if err != nil {
		return nil, err
	}

	var suggester pipeline.CueSuggester
	if cfg.Script.AnthropicKey != "" {
		suggester = script.NewAutoCueSuggester(cfg.Script.AnthropicKey, cfg.Script.AutoCueModel)
	}

	rt := &runtime{cfg: cfg, store: store, close: func() {}}

	if cfg.Database.URL != "" {
		pool, err := history.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, history and archive disabled", "error", err)
		} else {
			if err := history.Migrate(ctx, pool); err != nil {
				slog.Warn("migrating history schema", "error", err)
				pool.Close()
			} else {
				rt.history = history.NewService(pool)
				rt.archive = archive.NewService(pool, cfg.Script.OpenAIKey)
				rt.close = pool.Close
			}
		}
	}

	rt.pipeline = pipeline.New(cfg, pipeline.Deps{
		Store:     store,
		Gateway:   script.NewGateway(cfg.Script),
		Synth:     synth,
		Shaper:    shaper,
		Audio:     runner,
		Suggester: suggester,
		Notifier:  notifierOrNil(cfg),
	})
	return rt, nil
}

// notifierOrNil keeps the pipeline's Notifier interface nil when no
// webhook is configured; a typed nil would dodge the pipeline's nil check.
func notifierOrNil(cfg *config.Config) pipeline.Notifier {
	if d := notify.NewDispatcher(cfg.Notify); d != nil {
		return d
	}
	return nil
}
