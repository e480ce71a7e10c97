package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/editor"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/queue"
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

	ctx := context.Background()
	store := project.NewStore(cfg.Project.Dir)

	// Redis backs the render queue and job status. Without it the editor
	// still serves and saves; only /api/generate degrades.
	var (
		rdb         *redis.Client
		queueClient *queue.Client
		status      *queue.StatusStore
	)
	rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, rendering from the editor disabled", "error", err)
		rdb.Close()
		rdb = nil
	} else {
		defer rdb.Close()
		queueClient = queue.NewClient(cfg.Redis)
		defer queueClient.Close()
		status = queue.NewStatusStore(rdb)
	}

	router := editor.NewRouter(cfg, store, queueClient, status, rdb)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting editor service", "addr", cfg.Addr(), "project", cfg.Project.Dir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down editor service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
