package handlers

import (
	"log"
	"net/http"

	"github.com/good-yellow-bee/adminnotices/internal/web/session"
	"github.com/good-yellow-bee/adminnotices/internal/web/views"
)

// ShowSettings renders the notice ledger (editor+, enforced by the router).
func (h *Handler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ctx := r.Context()
	entries, err := h.ledger.Entries(ctx)
	if err != nil {
		log.Printf("load notice ledger: %v", err)
		http.Error(w, "Failed to load notices", http.StatusInternalServerError)
		return
	}

	rows := make([]views.LedgerRow, 0, len(entries))
	for _, e := range entries {
		row := views.LedgerRow{Fingerprint: e.Fingerprint, Hidden: e.Hidden}
		if !e.FirstSeen.IsZero() {
			if row.FirstSeen, err = h.ledger.Format(ctx, e.FirstSeen); err != nil {
				log.Printf("format notice time: %v", err)
				http.Error(w, "Failed to load notices", http.StatusInternalServerError)
				return
			}
		}
		rows = append(rows, row)
	}

	renderPage(w, r, http.StatusOK, views.Settings(h.page(r, sess), rows))
}
