package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/ppetrenko/techvocab-api/internal/api/middleware"
)

// RouterConfig bundles the handlers and middleware the router mounts.
type RouterConfig struct {
	TaskHandler    *TaskHandler
	CatalogHandler *CatalogHandler
	AuthMiddleware *apiMiddleware.AuthMiddleware
	Logger         *slog.Logger
}

// NewRouter assembles the application router with all routes and
// middleware. Everything under /api requires a valid bearer token; the
// health endpoint is public.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.TaskHandler == nil || cfg.CatalogHandler == nil {
		panic("handlers cannot be nil")
	}
	if cfg.AuthMiddleware == nil {
		panic("auth middleware cannot be nil")
	}
	if cfg.Logger == nil {
		panic("logger cannot be nil")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.Authenticate)

			// Task lifecycle endpoints
			r.Post("/tasks/generate/{kind}", cfg.TaskHandler.GenerateTask)
			r.Post("/tasks/validate/{kind}", cfg.TaskHandler.ValidateTask)

			// Catalog endpoints
			r.Get("/words", cfg.CatalogHandler.ListWords)
			r.Get("/terms", cfg.CatalogHandler.ListTerms)

			// Per-user item flags
			r.Post("/words/{id}/favorite", cfg.CatalogHandler.SetWordFavorite)
			r.Post("/words/{id}/known", cfg.CatalogHandler.SetWordKnown)
			r.Post("/terms/{id}/favorite", cfg.CatalogHandler.SetTermFavorite)
			r.Post("/terms/{id}/known", cfg.CatalogHandler.SetTermKnown)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			cfg.Logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
