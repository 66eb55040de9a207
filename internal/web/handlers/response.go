package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/a-h/templ"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
)

// ajaxResponse is the envelope of every successful or failed AJAX reply.
type ajaxResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func writeAjax(w http.ResponseWriter, status int, resp ajaxResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("write ajax response: %v", err)
	}
}

// ajaxOK writes {"success":true,"data":data}.
func ajaxOK(w http.ResponseWriter, data any) {
	writeAjax(w, http.StatusOK, ajaxResponse{Success: true, Data: data})
}

// ajaxFail writes {"success":false} after a server-side failure.
func ajaxFail(w http.ResponseWriter, err error) {
	log.Printf("ajax request failed: %v", err)
	writeAjax(w, http.StatusInternalServerError, ajaxResponse{Success: false})
}

// ajaxReject ends a request with status and no payload.
func ajaxReject(w http.ResponseWriter, status int, reason string) {
	metrics.AjaxRejectedTotal.WithLabelValues(reason).Inc()
	w.WriteHeader(status)
}

// renderPage streams a page component as the response body.
func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		log.Printf("render %s: %v", r.URL.Path, err)
	}
}
