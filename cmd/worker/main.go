package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dropforge/dropforge/internal/archive"
	"github.com/dropforge/dropforge/internal/audio"
	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/history"
	"github.com/dropforge/dropforge/internal/notify"
	"github.com/dropforge/dropforge/internal/pipeline"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/queue"
	"github.com/dropforge/dropforge/internal/queue/workers"
	"github.com/dropforge/dropforge/internal/resynth"
	"github.com/dropforge/dropforge/internal/script"
	"github.com/dropforge/dropforge/internal/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	synth, err := voice.NewSynthesizer(cfg.Voice)
	if err != nil {
		slog.Error("voice backend", "error", err)
		os.Exit(1)
	}
	shaper, err := resynth.NewShaper(cfg.Resynth)
	if err != nil {
		slog.Error("resynth backend", "error", err)
		os.Exit(1)
	}
	runner, err := audio.NewRunner()
	if err != nil {
		slog.Error("audio runner", "error", err)
		os.Exit(1)
	}

	var suggester pipeline.CueSuggester
	if cfg.Script.AnthropicKey != "" {
		suggester = script.NewAutoCueSuggester(cfg.Script.AnthropicKey, cfg.Script.AutoCueModel)
	}

	// DB-backed history and archive are optional.
	var (
		histSvc    *history.Service
		archiveSvc *archive.Service
	)
	if cfg.Database.URL != "" {
		pool, err := history.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, history and archive disabled", "error", err)
		} else {
			defer pool.Close()
			if err := history.Migrate(ctx, pool); err != nil {
				slog.Warn("migrations failed", "error", err)
			} else {
				histSvc = history.NewService(pool)
				archiveSvc = archive.NewService(pool, cfg.Script.OpenAIKey)
			}
		}
	}

	var notifier pipeline.Notifier
	if d := notify.NewDispatcher(cfg.Notify); d != nil {
		notifier = d
	}

	p := pipeline.New(cfg, pipeline.Deps{
		Store:     project.NewStore(cfg.Project.Dir),
		Gateway:   script.NewGateway(cfg.Script),
		Synth:     synth,
		Shaper:    shaper,
		Audio:     runner,
		Suggester: suggester,
		Notifier:  notifier,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	statusStore := queue.NewStatusStore(rdb)

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// Renders hold the project lock, so one at a time; the low
			// queue keeps archive embeds flowing between them.
			Concurrency: 2,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	renderWorker := workers.NewRenderWorker(p, statusStore, histSvc, queueClient)
	registry.Register(queue.TypeRenderRun, asynq.HandlerFunc(renderWorker.ProcessTask))

	archiveWorker := workers.NewArchiveWorker(archiveSvc)
	registry.Register(queue.TypeArchiveEmbed, asynq.HandlerFunc(archiveWorker.ProcessTask))

	slog.Info("starting render worker", "project", cfg.Project.Dir)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
