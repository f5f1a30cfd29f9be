package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires HTTP handlers into the provided router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	health := HealthHandler{Store: deps.Store}
	videos := VideoHandler{Videos: deps.Videos}

	r.Get("/ping", health.Ping)
	r.Get("/healthz", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", videos.List)
		r.Post("/", videos.Create)
		r.Put("/{id}", videos.Update)
		r.Delete("/{id}", videos.Delete)
	})
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Videos VideoService
	Store  Pinger
}
