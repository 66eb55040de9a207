package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/adminnotices/internal/web/middleware"
)

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(s.opts.Verbose))
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PlaintextHTTP)

	protect := middleware.Protect(middleware.NonceConfig{
		Key:      s.opts.CSRFKey,
		Secure:   s.opts.SecureCookies,
		Required: s.opts.RequireNonce,
	})

	// Static files and probes (no CSRF)
	r.Handle("/static/*", http.StripPrefix("/static/", s.StaticFS()))
	r.Get("/healthz", s.health.Live)
	r.Get("/readyz", s.health.Ready)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(protect)

		r.Get("/login", s.handler.ShowLogin)
		r.Post("/login", s.handler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(s.sessions))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin", http.StatusFound)
			})
			r.Get("/admin", s.handler.ShowAdmin)
			r.Post("/logout", s.handler.HandleLogout)
			r.With(middleware.RequireRole("editor")).Get("/settings", s.handler.ShowSettings)
		})
	})

	// AJAX endpoints answer with status codes only when rejected.
	r.Route("/ajax", func(r chi.Router) {
		r.Use(middleware.RequireSession(s.sessions))
		r.Use(middleware.RateLimitByUser(s.limiter))
		r.Use(middleware.OptionalNonce(s.opts.RequireNonce))
		r.Use(protect)

		r.Post("/log-notices", s.handler.LogNotices)
		r.Post("/hide-notice-forever", s.handler.HideNoticeForever)
		r.Post("/dismiss-pointer", s.handler.DismissPointer)
	})

	return r
}
