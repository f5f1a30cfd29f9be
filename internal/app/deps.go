package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitorfontenele/videos-api/internal/config"
	"github.com/vitorfontenele/videos-api/internal/handlers"
	"github.com/vitorfontenele/videos-api/internal/middleware"
	"github.com/vitorfontenele/videos-api/internal/repositories"
	"github.com/vitorfontenele/videos-api/internal/videos"
)

const rateLimitVisitorTTL = 10 * time.Minute

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(store repositories.Store) handlers.Dependencies {
	return handlers.Dependencies{
		Videos: videos.NewService(store),
		Store:  store,
	}
}

// buildRouter installs the middleware chain and the routes. Metrics wraps the
// request logger so recovered panics are counted as 500s.
func buildRouter(logger *slog.Logger, cfg config.Config, deps handlers.Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, rateLimitVisitorTTL)
		r.Use(middleware.RateLimit(limiter))
	}

	handlers.RegisterRoutes(r, deps)
	return r
}
