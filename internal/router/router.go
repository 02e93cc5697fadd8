// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Reads are open; mutating routes additionally pass through
// the per-client rate limiter when one is configured.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
)

// Options configures the router's middleware stack.
type Options struct {
	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string

	// Limiter, when set, guards every POST, PATCH and DELETE route.
	Limiter *middleware.RateLimiter

	// Metrics records per-route request metrics. MetricsHandler, when set,
	// is served at /metrics.
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.SecureHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}

	r.Get("/health", healthHandler)
	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.NotFound(notFoundHandler)
		r.MethodNotAllowed(methodNotAllowedHandler)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Get("/{id}", api.CategoryGet)

			r.Group(func(r chi.Router) {
				limit(r, opts.Limiter)
				r.Post("/", api.CategoryCreate)
				r.Patch("/{id}", api.CategoryUpdate)
				r.Delete("/{id}", api.CategoryDelete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.PostsList)
			r.Get("/slug/{slug}", api.PostGetBySlug)
			r.Get("/{id}", api.PostGet)

			r.Group(func(r chi.Router) {
				limit(r, opts.Limiter)
				r.Post("/", api.PostCreate)
				r.Patch("/{id}", api.PostUpdate)
				r.Delete("/{id}", api.PostDelete)
			})
		})
	})

	return r
}

func limit(r chi.Router, rl *middleware.RateLimiter) {
	if rl != nil {
		r.Use(rl.Middleware)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"kind":"not_found","message":"route not found"}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"kind":"validation","message":"method not allowed"}`))
}
