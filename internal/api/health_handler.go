package api

import (
	"net/http"
	"time"

	"github.com/chetarea/tarea-api/internal/api/shared"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a HealthHandler whose uptime counts from startedAt.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, now: time.Now}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.startedAt).Seconds(),
	})
}
