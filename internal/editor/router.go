// Package editor is the HTTP service behind the timeline editor frontend:
// it serves project artifacts, persists editor state, and hands render
// requests to the job queue.
package editor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/queue"
)

type Router struct {
	cfg    *config.Config
	store  *project.Store
	queue  *queue.Client
	status *queue.StatusStore
	redis  *redis.Client
}

// NewRouter wires the editor service. queue, status, and rdb may be nil
// when redis is unavailable; rendering degrades to 503 while the editing
// endpoints keep working.
func NewRouter(cfg *config.Config, store *project.Store, qc *queue.Client, status *queue.StatusStore, rdb *redis.Client) *Router {
	return &Router{cfg: cfg, store: store, queue: qc, status: status, redis: rdb}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS)

	rl := NewRateLimiter(50, 100)
	r.Use(rl.Limit)

	r.Get("/healthz", rt.healthz)
	r.Get("/readyz", rt.readyz)

	h := NewHandlers(rt.store, rt.cfg.Project.SFXDir, rt.cfg.Project.WebDir, rt.queue, rt.status)
	auth := NewAuth(rt.cfg.Auth.JWTSecret)

	r.Get("/", h.Index)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/timeline-data", h.TimelineData)
		r.Get("/audio", h.Audio)
		r.Get("/sfx/{category}/{name}", h.SFXFile)
		r.Get("/download-config", h.DownloadConfig)
		r.Post("/save-state", h.SaveState)
		r.Post("/save-pitch-markers", h.SavePitchMarkers)
		r.Post("/generate", h.Generate)
		r.Get("/jobs/{id}", h.JobStatus)
	})

	return r
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if rt.redis != nil {
		if err := rt.redis.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, status, map[string]any{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
