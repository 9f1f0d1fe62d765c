package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pliu/aichat/internal/store"
	"github.com/rs/zerolog"
)

const pingTimeout = 3 * time.Second

type HealthHandler struct {
	Store store.Store
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "dbError": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Database connected"})
}

// DebugDB reports per-collection counts.
func (h *HealthHandler) DebugDB(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": stats})
}
