package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vitorfontenele/videos-api/internal/logging"
	"github.com/vitorfontenele/videos-api/internal/videos"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError writes err's message as a plain-text body with the status for its kind.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)

	logger := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request returned client error", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, videos.ErrValidation), errors.Is(err, videos.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, videos.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
