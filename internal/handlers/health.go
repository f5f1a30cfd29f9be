package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vitorfontenele/videos-api/internal/logging"
)

const readinessTimeout = 2 * time.Second

// HealthHandler responds with service liveness and readiness information.
type HealthHandler struct {
	Store Pinger
}

// Ping implements GET /ping.
func (HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Pong!"})
}

// Ready implements GET /healthz, reporting whether the store answers.
func (h HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.Store.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Error("store ping failed", "error", err)
			respondJSON(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
