package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/evento-labs/server/internal/storage"
)

type HealthHandler struct {
	Repo    storage.Repository
	Version string
}

func NewHealthHandler(repo storage.Repository, version string) *HealthHandler {
	return &HealthHandler{Repo: repo, Version: version}
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   h.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz reports readiness by pinging the storage backend.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Repo.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ready",
		Version:   h.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
