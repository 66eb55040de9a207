package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/good-yellow-bee/adminnotices/internal/notices"
	"github.com/good-yellow-bee/adminnotices/internal/web/middleware"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
	"github.com/good-yellow-bee/adminnotices/internal/web/views"
)

// ShowAdmin renders the admin page with every registered notice. For roles
// allowed to hide notices the output is wrapped in the notice panel and the
// admin bar gets the counter.
func (h *Handler) ShowAdmin(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	page := h.page(r, sess)
	body := h.notices.Render(h.screen)
	if page.Counter {
		body = notices.Wrap(body)
	}

	renderPage(w, r, http.StatusOK, views.Admin(page, body))
}

// page builds the layout data shared by the admin pages.
func (h *Handler) page(r *http.Request, sess *session.Session) views.Page {
	p := views.Page{
		Session:  sess,
		Token:    csrf.Token(r),
		CSPNonce: middleware.GetCSPNonce(r.Context()),
		Counter:  h.hidingAllowed(sess.Role),
	}
	if h.pointers != nil {
		pending, err := h.pointers.Pending(r.Context(), sess.UserID)
		if err != nil {
			log.Printf("load pointers for %s: %v", sess.UserID, err)
		}
		p.Pointers = pending
	}
	return p
}
