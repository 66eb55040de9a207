package handlers

import (
	"errors"
	"net/http"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

// LogNotices reconciles the notices the browser found on the page and
// returns one status per notice, in request order.
func (h *Handler) LogNotices(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogNotices(r)
	if err != nil {
		ajaxReject(w, http.StatusBadRequest, "malformed")
		return
	}

	statuses, err := h.ledger.Reconcile(r.Context(), req.Notices)
	if err != nil {
		if errors.Is(err, notices.ErrMalformedRequest) {
			ajaxReject(w, http.StatusBadRequest, "malformed")
			return
		}
		ajaxFail(w, err)
		return
	}

	ajaxOK(w, statuses)
}

// HideNoticeForever adds a notice fingerprint to the hidden set.
func (h *Handler) HideNoticeForever(w http.ResponseWriter, r *http.Request) {
	req, err := parseHideNotice(r)
	if err != nil {
		ajaxReject(w, http.StatusBadRequest, "malformed")
		return
	}

	if err := h.ledger.Hide(r.Context(), req.NoticeHash); err != nil {
		if errors.Is(err, notices.ErrMalformedRequest) {
			ajaxReject(w, http.StatusBadRequest, "malformed")
			return
		}
		ajaxFail(w, err)
		return
	}

	ajaxOK(w, nil)
}

// DismissPointer records that the current user closed an onboarding
// pointer.
func (h *Handler) DismissPointer(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		ajaxReject(w, http.StatusForbidden, "auth")
		return
	}

	req, err := parseDismissPointer(r)
	if err != nil {
		ajaxReject(w, http.StatusBadRequest, "malformed")
		return
	}

	if err := h.pointers.Dismiss(r.Context(), sess.UserID, req.Pointer); err != nil {
		if errors.Is(err, pointers.ErrInvalidName) {
			ajaxReject(w, http.StatusBadRequest, "malformed")
			return
		}
		ajaxFail(w, err)
		return
	}

	metrics.PointerDismissalsTotal.WithLabelValues(pointerLabel(req.Pointer)).Inc()
	ajaxOK(w, nil)
}

// pointerLabel bounds the metric label to the known pointer names.
func pointerLabel(name string) string {
	for _, p := range pointers.Default {
		if p.Name == name {
			return name
		}
	}
	return "other"
}
