package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vitorfontenele/videos-api/internal/videos"
)

const maxBodyBytes = 1 << 20

// VideoHandler exposes the video catalog over HTTP.
type VideoHandler struct {
	Videos VideoService
}

type videoResponse struct {
	Message string       `json:"message"`
	Video   videos.Video `json:"video"`
}

// List handles GET /videos, filtering by title when q is given.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	found, err := h.Videos.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, found)
}

// Create handles POST /videos.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	video, err := h.Videos.Create(r.Context(), in)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusCreated, videoResponse{Message: "video created successfully", Video: video})
}

// Update handles PUT /videos/{id}.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := videoID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	in, err := decodeInput(w, r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	video, err := h.Videos.Update(r.Context(), id, in)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, videoResponse{Message: "video updated successfully", Video: video})
}

// Delete handles DELETE /videos/{id}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := videoID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	video, err := h.Videos.Delete(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, videoResponse{Message: "video deleted successfully", Video: video})
}

// videoID returns the decoded {id} path segment. chi matches against the raw
// path when the request carries one, leaving the segment escaped.
func videoID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", &videos.Error{Kind: videos.ErrValidation, Message: "invalid video id", Err: fmt.Errorf("unescape id: %w", err)}
	}
	return decoded, nil
}

// decodeInput reads a JSON body. Bodies sent with another content type are
// ignored and treated as an empty object.
func decodeInput(w http.ResponseWriter, r *http.Request) (videos.Input, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return videos.Input{}, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return videos.Input{}, &videos.Error{Kind: videos.ErrValidation, Message: "invalid request body", Err: fmt.Errorf("read body: %w", err)}
	}
	return videos.ParseInput(body)
}
