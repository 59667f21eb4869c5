package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/authz"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth       *AuthHandler
	Statuses   *StatusHandler
	Categories *CategoryHandler
	Tasks      *TaskHandler
	Logs       *LogHandler

	Authenticator *middleware.AuthMiddleware
	// AuthLimiter throttles /api/auth. Nil disables rate limiting.
	AuthLimiter *middleware.RateLimiter
	// Health reports readiness on /health. Nil always reports OK.
	Health func(r *http.Request) error
}

// NewRouter builds the HTTP routing tree.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.TraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if h.AuthLimiter != nil {
				r.Use(h.AuthLimiter.Handler)
			}
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticator.Authenticate)

			mountVocabulary(r, "/status", h.Statuses)
			mountVocabulary(r, "/categories", h.Categories)

			r.Route("/tasks", func(r chi.Router) {
				r.Use(middleware.Require(authz.AnyOf(authz.IsAdmin, authz.IsClient)))
				r.Get("/", h.Tasks.List)
				r.Post("/", h.Tasks.Create)
				r.Get("/{id}", h.Tasks.Get)
				r.Put("/{id}", h.Tasks.Replace)
				r.Patch("/{id}", h.Tasks.Patch)
				r.Delete("/{id}", h.Tasks.Delete)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Use(middleware.Require(authz.IsAdmin))
				r.Get("/", h.Logs.List)
				r.Get("/{id}", h.Logs.Get)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if h.Health != nil {
			if err := h.Health(r); err != nil {
				HandleAPIError(w, r, err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// mountVocabulary registers a status or category resource: reads for any
// authenticated user, writes for admins.
func mountVocabulary[T any](r chi.Router, path string, h *VocabularyHandler[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(authz.IsAdmin))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}
