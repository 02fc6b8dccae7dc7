// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storesmith API. It organizes routes into public and authenticated groups
// with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storesmith/internal/handlers"
	"storesmith/internal/middleware"
)

// Handlers are the handler groups the router mounts. Dev is nil outside
// development.
type Handlers struct {
	Stores  *handlers.Stores
	Catalog *handlers.Catalog
	Drafts  *handlers.Drafts
	Public  *handlers.Public
	Dev     *handlers.Dev
}

// Options tune the middleware.
type Options struct {
	// GenerateLimiter throttles store generation. Nil disables it.
	GenerateLimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionGetter, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	// Published stores.
	r.Route("/s/{slug}", func(r chi.Router) {
		r.Get("/", h.Public.Page)
		r.Get("/theme.css", h.Public.Stylesheet)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions))
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Catalog data is the same for everyone.
		r.Get("/layouts", h.Catalog.Layouts)
		r.Get("/themes", h.Catalog.Themes)

		if h.Dev != nil {
			r.Post("/dev/session", h.Dev.Session)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", h.Stores.List)
				r.With(limit(opts.GenerateLimiter)).Post("/", h.Stores.Generate)
				r.Get("/history", h.Stores.History)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Stores.Get)
					r.Delete("/", h.Stores.Delete)
					r.Put("/theme", h.Stores.UpdateTheme)
					r.Put("/order", h.Stores.Reorder)
					r.Post("/publish", h.Stores.Publish)
					r.Post("/rerank", h.Stores.Rerank)

					r.Route("/sections/{sectionId}", func(r chi.Router) {
						r.Put("/", h.Stores.UpdateSection)
						r.Post("/regenerate", h.Stores.RegenerateSection)
						r.Put("/layout", h.Stores.ChangeLayout)
					})
				})
			})

			r.Route("/builder/draft", func(r chi.Router) {
				r.Get("/", h.Drafts.Get)
				r.Put("/", h.Drafts.Put)
				r.Delete("/", h.Drafts.Delete)
				r.Put("/theme", h.Drafts.SetThemeField)
				r.Post("/sections/move", h.Drafts.MoveSection)
				r.Put("/sections/{index}", h.Drafts.ReplaceSection)
				r.Patch("/sections/{index}", h.Drafts.UpdateSectionFields)
				r.Delete("/sections/{index}", h.Drafts.RemoveSection)
			})
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through when nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success":true,"data":{"status":"ok"}}`))
}
