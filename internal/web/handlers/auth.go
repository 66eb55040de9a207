package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
	"github.com/good-yellow-bee/adminnotices/internal/web/middleware"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
	"github.com/good-yellow-bee/adminnotices/internal/web/views"
)

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	// Check if already logged in
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if _, ok := h.sessions.Get(cookie.Value); ok {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
	}

	renderPage(w, r, http.StatusOK, views.Login(csrf.Token(r), ""))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderLoginError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		renderLoginError(w, r, http.StatusBadRequest, "Username and password are required")
		return
	}

	if h.lockout != nil && h.lockout.IsLocked(username) {
		metrics.AuthAttemptsTotal.WithLabelValues("locked").Inc()
		renderLoginError(w, r, http.StatusTooManyRequests, "Account temporarily locked due to too many failed attempts")
		return
	}

	user, err := h.storage.Users().GetByUsername(r.Context(), username)
	if err != nil {
		log.Printf("login lookup for %s failed: %v", username, err)
	}
	if err != nil || user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if h.lockout != nil {
			h.lockout.RecordFailure(username)
		}
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		renderLoginError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if h.lockout != nil {
		h.lockout.ClearFailures(username)
	}

	// Invalidate any existing session to prevent session fixation
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	sess, err := h.sessions.CreateWithTTL(user.ID, user.Username, string(user.Role), h.sessionTTL)
	if err != nil {
		log.Printf("create session for %s: %v", username, err)
		renderLoginError(w, r, http.StatusInternalServerError, "Failed to create session")
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.IsRequestSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})

	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	// Clear cookie
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/login", http.StatusFound)
}

func renderLoginError(w http.ResponseWriter, r *http.Request, status int, message string) {
	renderPage(w, r, status, views.Login(csrf.Token(r), message))
}
