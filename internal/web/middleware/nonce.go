package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
)

// Anti-forgery token locations.
const (
	NonceField  = "_nonce"
	NonceHeader = "X-ANM-Nonce"
)

// NonceConfig configures the anti-forgery protection.
type NonceConfig struct {
	Key []byte
	// Secure marks the token cookie Secure.
	Secure bool
	// Required rejects AJAX requests that carry no token at all. When
	// false, only a present token is validated.
	Required bool
}

// Protect returns the gorilla/csrf middleware with the nonce field and
// header names and a failure handler that writes no payload.
func Protect(cfg NonceConfig) func(http.Handler) http.Handler {
	return csrf.Protect(
		cfg.Key,
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.FieldName(NonceField),
		csrf.RequestHeader(NonceHeader),
		csrf.ErrorHandler(http.HandlerFunc(nonceFailure)),
	)
}

// PlaintextHTTP tells the CSRF layer which requests arrived without TLS so
// it skips the HTTPS-only Referer check for them.
func PlaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsRequestSecure(r) {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalNonce lets token-less AJAX requests through the CSRF layer when
// tokens are not required. It must run before Protect.
func OptionalNonce(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !required && r.Header.Get(NonceHeader) == "" && r.PostFormValue(NonceField) == "" {
				r = csrf.UnsafeSkipCheck(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func nonceFailure(w http.ResponseWriter, r *http.Request) {
	log.Printf("anti-forgery check failed: %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	if strings.HasPrefix(r.URL.Path, "/ajax/") {
		metrics.AjaxRejectedTotal.WithLabelValues("auth").Inc()
		w.WriteHeader(http.StatusForbidden)
		return
	}
	http.Error(w, "Forbidden - invalid request token", http.StatusForbidden)
}
