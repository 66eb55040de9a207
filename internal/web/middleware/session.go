// Package middleware provides HTTP middleware for the admin web server.
package middleware

import (
	"net/http"
	"strings"

	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

// RequireSession redirects page requests without a valid session to the
// login page. AJAX requests get a bare 401 instead.
func RequireSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				unauthenticated(w, r)
				return
			}

			sess, ok := store.Get(cookie.Value)
			if !ok {
				// Clear invalid cookie
				http.SetCookie(w, &http.Cookie{
					Name:   session.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				unauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/ajax/") {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// RequireRole middleware ensures the user has the required role
// Must be used after RequireSession middleware
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if !HasRole(sess.Role, role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HasRole checks if userRole meets or exceeds requiredRole
// Role hierarchy: admin > editor > viewer
func HasRole(userRole, requiredRole string) bool {
	roleLevel := map[string]int{
		"viewer": 1,
		"editor": 2,
		"admin":  3,
	}

	userLevel, ok := roleLevel[userRole]
	if !ok {
		return false
	}

	requiredLevel, ok := roleLevel[requiredRole]
	if !ok {
		return false
	}

	return userLevel >= requiredLevel
}
