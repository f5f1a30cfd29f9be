package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitorfontenele/videos-api/internal/repositories"
	"github.com/vitorfontenele/videos-api/internal/videos"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := repositories.NewInMemoryVideoStore()
	svc := videos.NewService(store)
	svc.NowFunc = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{Videos: svc, Store: store})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, strings.TrimSpace(string(payload))
}

func expect(t *testing.T, gotStatus int, gotBody string, wantStatus int, wantBody string) {
	t.Helper()
	if gotStatus != wantStatus {
		t.Fatalf("expected status %d got %d (body %s)", wantStatus, gotStatus, gotBody)
	}
	if wantBody != "" && gotBody != wantBody {
		t.Fatalf("expected body %s got %s", wantBody, gotBody)
	}
}

func TestRoutesVideoLifecycle(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/ping", "")
	expect(t, status, body, http.StatusOK, `{"message":"Pong!"}`)

	status, body = do(t, srv, http.MethodGet, "/videos", "")
	expect(t, status, body, http.StatusOK, `[]`)

	status, body = do(t, srv, http.MethodPost, "/videos", `{"id":"v1","title":"Learning Go","duration":120}`)
	expect(t, status, body, http.StatusCreated,
		`{"message":"video created successfully","video":{"id":"v1","title":"Learning Go","duration":120,"uploadedAt":"2024-05-01T12:00:00.000Z"}}`)

	status, body = do(t, srv, http.MethodPost, "/videos", `{"id":"v1","title":"Again","duration":5}`)
	expect(t, status, body, http.StatusBadRequest, "id already exists")

	status, body = do(t, srv, http.MethodPost, "/videos", `{"id":"v2","title":"Rust","duration":0}`)
	expect(t, status, body, http.StatusBadRequest, "duration must be greater than zero")

	status, body = do(t, srv, http.MethodPost, "/videos", `{"id":"v2","title":"Rust in practice","duration":95.5}`)
	expect(t, status, body, http.StatusCreated, "")

	status, body = do(t, srv, http.MethodGet, "/videos?q=Go", "")
	expect(t, status, body, http.StatusOK,
		`[{"id":"v1","title":"Learning Go","duration":120,"uploadedAt":"2024-05-01T12:00:00.000Z"}]`)

	status, body = do(t, srv, http.MethodPut, "/videos/v1", `{"title":"","duration":60}`)
	expect(t, status, body, http.StatusOK,
		`{"message":"video updated successfully","video":{"id":"v1","title":"Learning Go","duration":60,"uploadedAt":"2024-05-01T12:00:00.000Z"}}`)

	status, body = do(t, srv, http.MethodPut, "/videos/v1", `{"id":"v2"}`)
	expect(t, status, body, http.StatusBadRequest, "id already exists")

	status, body = do(t, srv, http.MethodPut, "/videos/missing", `{"title":"x"}`)
	expect(t, status, body, http.StatusNotFound, "id not found")

	status, body = do(t, srv, http.MethodPut, "/videos/v1", `not json`)
	expect(t, status, body, http.StatusBadRequest, "invalid request body")

	status, body = do(t, srv, http.MethodDelete, "/videos/v2", "")
	expect(t, status, body, http.StatusOK,
		`{"message":"video deleted successfully","video":{"id":"v2","title":"Rust in practice","duration":95.5,"uploadedAt":"2024-05-01T12:00:00.000Z"}}`)

	status, body = do(t, srv, http.MethodDelete, "/videos/v2", "")
	expect(t, status, body, http.StatusNotFound, "video not found")

	status, body = do(t, srv, http.MethodGet, "/videos", "")
	var remaining []map[string]any
	if err := json.Unmarshal([]byte(body), &remaining); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if status != http.StatusOK || len(remaining) != 1 || remaining[0]["id"] != "v1" {
		t.Fatalf("unexpected final listing %d %s", status, body)
	}
}

func TestRoutesPostWithoutBodyFailsOnID(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/videos", "")
	expect(t, status, body, http.StatusBadRequest, "id must be a string")
}

func TestRoutesDecodeEscapedIDs(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/videos", `{"id":"a/b","title":"Slashed","duration":10}`)
	expect(t, status, body, http.StatusCreated, "")
	status, body = do(t, srv, http.MethodPost, "/videos", `{"id":"100%","title":"Percent","duration":10}`)
	expect(t, status, body, http.StatusCreated, "")

	status, body = do(t, srv, http.MethodPut, "/videos/a%2Fb", `{"title":"Renamed"}`)
	expect(t, status, body, http.StatusOK,
		`{"message":"video updated successfully","video":{"id":"a/b","title":"Renamed","duration":10,"uploadedAt":"2024-05-01T12:00:00.000Z"}}`)

	status, body = do(t, srv, http.MethodPut, "/videos/100%25", `{"duration":20}`)
	expect(t, status, body, http.StatusOK,
		`{"message":"video updated successfully","video":{"id":"100%","title":"Percent","duration":20,"uploadedAt":"2024-05-01T12:00:00.000Z"}}`)

	status, body = do(t, srv, http.MethodDelete, "/videos/a%2Fb", "")
	expect(t, status, body, http.StatusOK, "")
	status, body = do(t, srv, http.MethodDelete, "/videos/100%25", "")
	expect(t, status, body, http.StatusOK, "")

	status, body = do(t, srv, http.MethodGet, "/videos", "")
	expect(t, status, body, http.StatusOK, `[]`)
}

func TestRoutesIgnoreNonJSONBodies(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/videos", strings.NewReader(`{"id":"v1","title":"Plain","duration":1}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	expect(t, resp.StatusCode, string(payload), http.StatusBadRequest, "id must be a string")
}

func TestRoutesHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/healthz", "")
	expect(t, status, body, http.StatusOK, `{"status":"ok"}`)

	status, body = do(t, srv, http.MethodGet, "/metrics", "")
	if status != http.StatusOK || !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected prometheus exposition, got %d", status)
	}
}
