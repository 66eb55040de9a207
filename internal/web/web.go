// Package web assembles the admin console HTTP server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/good-yellow-bee/adminnotices/internal/web/handlers"
	"github.com/good-yellow-bee/adminnotices/internal/web/health"
	"github.com/good-yellow-bee/adminnotices/internal/web/middleware"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

//go:embed static
var staticFS embed.FS

// Options configures the router.
type Options struct {
	// CSRFKey is the 32-byte anti-forgery key.
	CSRFKey []byte
	// SecureCookies marks session and token cookies Secure.
	SecureCookies bool
	// RequireNonce rejects AJAX requests without an anti-forgery token.
	RequireNonce bool
	// AjaxPerMinute and AjaxBurst bound AJAX calls per user.
	AjaxPerMinute int
	AjaxBurst     int
	// Verbose logs every request, not only failures.
	Verbose bool
}

type Server struct {
	handler  *handlers.Handler
	health   *health.Handler
	sessions *session.Store
	limiter  *middleware.RateLimiter
	opts     Options
}

func NewServer(handler *handlers.Handler, probes *health.Handler, sessions *session.Store, opts Options) *Server {
	if opts.AjaxPerMinute <= 0 {
		opts.AjaxPerMinute = 120
	}
	if opts.AjaxBurst <= 0 {
		opts.AjaxBurst = 20
	}
	if probes == nil {
		probes = health.NewHandler()
	}
	return &Server{
		handler:  handler,
		health:   probes,
		sessions: sessions,
		limiter:  middleware.NewRateLimiter(opts.AjaxPerMinute, opts.AjaxBurst),
		opts:     opts,
	}
}

func (s *Server) StaticFS() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unrecoverable init error - server cannot function without static assets
		panic(fmt.Sprintf("failed to create static FS: %v", err))
	}
	return http.FileServer(http.FS(sub))
}

func (s *Server) Sessions() *session.Store {
	return s.sessions
}

func (s *Server) Handler() *handlers.Handler {
	return s.handler
}
