package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/heritage-sites/internal/metrics"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	if s.metrics.Enabled {
		r.Use(metrics.InstrumentHandler(s.metrics.Path))
	}
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.sessionMiddleware)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	if s.metrics.Enabled {
		r.Handle(s.metrics.Path, metrics.Handler())
	}

	r.Get("/", s.handleHome)
	r.Get("/about", s.handleAbout)

	r.Get("/sites", s.handleSiteList)
	r.Get("/sites/filter", s.handleSiteFilter)
	r.Get("/sites/{id}", s.handleSiteDetail)

	r.Get("/accounts/login", s.handleLoginForm)
	r.Post("/accounts/login", s.handleLogin)
	r.Get("/accounts/logout", s.handleLogoutConfirm)
	r.Post("/accounts/logout", s.handleLogout)

	// Login required
	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/sites/new", s.handleSiteCreateForm)
		r.Post("/sites/new", s.handleSiteCreate)
		r.Get("/sites/{id}/update", s.handleSiteUpdateForm)
		r.Post("/sites/{id}/update", s.handleSiteUpdate)
		r.Get("/sites/{id}/delete", s.handleSiteDeleteConfirm)
		r.Post("/sites/{id}/delete", s.handleSiteDelete)

		r.Get("/countries", s.handleCountryList)
		r.Get("/countries/{id}", s.handleCountryDetail)
	})

	return r
}
