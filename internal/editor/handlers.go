package editor

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/queue"
	"github.com/dropforge/dropforge/internal/sfx"
)

// Handlers serves the timeline editor API over one project directory.
type Handlers struct {
	store  *project.Store
	sfxDir string
	webDir string
	queue  *queue.Client
	status *queue.StatusStore
}

func NewHandlers(store *project.Store, sfxDir, webDir string, qc *queue.Client, status *queue.StatusStore) *Handlers {
	return &Handlers{store: store, sfxDir: sfxDir, webDir: webDir, queue: qc, status: status}
}

// Index serves the editor page when the web directory carries one.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page := filepath.Join(h.webDir, "timeline_editor.html")
	if _, err := os.Stat(page); err != nil {
		writeError(w, http.StatusNotFound, "editor page not installed; the API is at /api/")
		return
	}
	http.ServeFile(w, r, page)
}

// TimelineData bundles everything the editor needs to draw: the original-
// pace transcript, saved editor state, markers, placements, and the SFX
// library. The editor applies the tempo multiplier client-side.
func (h *Handlers) TimelineData(w http.ResponseWriter, r *http.Request) {
	words, err := h.store.LoadWords()
	if err != nil {
		writeError(w, http.StatusNotFound, "no word timestamps yet; run a generation first")
		return
	}

	state, err := h.store.LoadState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading editor state: "+err.Error())
		return
	}

	markers, err := h.store.LoadMarkers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading pitch markers: "+err.Error())
		return
	}
	if markers == nil {
		markers = []pitch.Marker{}
	}

	placements, err := h.store.LoadPlacements()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading sfx placements: "+err.Error())
		return
	}
	if placements == nil {
		placements = []sfx.Placement{}
	}

	library, err := sfx.ScanLibrary(h.sfxDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scanning sfx library: "+err.Error())
		return
	}
	if library == nil {
		library = []sfx.Sound{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"words":          words,
		"state":          state,
		"pitch_markers":  markers,
		"sfx_placements": placements,
		"sfx_library":    library,
	})
}

// Audio streams the narration with Range support for seeking.
func (h *Handlers) Audio(w http.ResponseWriter, r *http.Request) {
	path := h.store.Path(project.VoiceFile)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "no voice audio yet")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

// SFXFile serves one effect by its library id ("category/stem").
func (h *Handlers) SFXFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category") + "/" + chi.URLParam(r, "name")

	library, err := sfx.ScanLibrary(h.sfxDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scanning sfx library: "+err.Error())
		return
	}
	for _, sound := range library {
		if sound.ID == id {
			w.Header().Set("Cache-Control", "max-age=3600")
			http.ServeFile(w, r, sound.Path)
			return
		}
	}
	writeError(w, http.StatusNotFound, "sfx not found: "+id)
}

// DownloadConfig bundles the saved editor state and pitch markers into one
// downloadable JSON snapshot.
func (h *Handlers) DownloadConfig(w http.ResponseWriter, r *http.Request) {
	bundle := map[string]any{}

	if state, err := h.store.LoadState(); err == nil && state != nil {
		bundle["editor_state"] = state
	}
	if markers, err := h.store.LoadMarkers(); err == nil && markers != nil {
		bundle["pitch_markers"] = markers
	}

	w.Header().Set("Content-Disposition", "attachment; filename=timeline_config.json")
	writeJSON(w, http.StatusOK, bundle)
}

// SaveState persists the editor's working state. Last write wins; the
// store stamps saved_at so stale tabs can detect they lost.
func (h *Handlers) SaveState(w http.ResponseWriter, r *http.Request) {
	var state project.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid state JSON: "+err.Error())
		return
	}
	if err := h.store.SaveState(&state); err != nil {
		writeError(w, http.StatusInternalServerError, "saving state: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "saved_at": state.SavedAt})
}

// SavePitchMarkers replaces the saved marker list. Markers save as intent;
// they resolve to cues on the next render.
func (h *Handlers) SavePitchMarkers(w http.ResponseWriter, r *http.Request) {
	var markers []pitch.Marker
	if err := json.NewDecoder(r.Body).Decode(&markers); err != nil {
		writeError(w, http.StatusBadRequest, "invalid markers JSON: "+err.Error())
		return
	}
	if err := h.store.SaveMarkers(markers); err != nil {
		writeError(w, http.StatusInternalServerError, "saving markers: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(markers)})
}

// GenerateRequest is the editor's render request body.
type GenerateRequest struct {
	Topic      string          `json:"topic,omitempty"`
	Reuse      bool            `json:"reuse"`
	Speed      float64         `json:"base_speed,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	Voice      string          `json:"voice,omitempty"`
	ManualCues []pitch.Cue     `json:"manual_cues,omitempty"`
	Placements []sfx.Placement `json:"sfx_placements,omitempty"`
}

// Generate enqueues a render job and returns its id immediately.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "render queue not configured")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid generate request: "+err.Error())
		return
	}
	if !req.Reuse && req.Topic == "" {
		writeError(w, http.StatusBadRequest, "a fresh run needs a topic; set reuse for a re-render")
		return
	}

	jobID := uuid.NewString()
	if h.status != nil {
		if err := h.status.Set(r.Context(), queue.JobStatus{JobID: jobID, State: queue.StatusQueued}); err != nil {
			writeError(w, http.StatusInternalServerError, "recording job status: "+err.Error())
			return
		}
	}

	err := h.queue.EnqueueRenderRun(queue.RenderRunPayload{
		JobID:      jobID,
		Topic:      req.Topic,
		Reuse:      req.Reuse,
		Speed:      req.Speed,
		Provider:   req.Provider,
		Voice:      req.Voice,
		ManualCues: req.ManualCues,
		Placements: req.Placements,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "enqueueing render: "+err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"job_id": jobID, "state": queue.StatusQueued})
}

// JobStatus reports one job's current state.
func (h *Handlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	if h.status == nil {
		writeError(w, http.StatusServiceUnavailable, "job status tracking not configured")
		return
	}
	st, err := h.status.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, queue.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
