package handlers

import (
	"net/http"
	"strings"

	"github.com/good-yellow-bee/adminnotices/internal/notices"
)

// Form fields of the AJAX endpoints.
const (
	fieldNotices    = "notices[]"
	fieldNoticeHash = "notice_hash"
	fieldPointer    = "pointer"
)

// logNoticesRequest carries the texts of the notices rendered on a page.
type logNoticesRequest struct {
	Notices []string
}

func parseLogNotices(r *http.Request) (*logNoticesRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, notices.ErrMalformedRequest
	}
	texts := r.PostForm[fieldNotices]
	if len(texts) == 0 {
		texts = r.PostForm["notices"]
	}
	req := &logNoticesRequest{Notices: texts}
	return req, req.validate()
}

func (req *logNoticesRequest) validate() error {
	if len(req.Notices) == 0 {
		return notices.ErrMalformedRequest
	}
	return nil
}

// hideNoticeRequest names the notice to hide forever.
type hideNoticeRequest struct {
	NoticeHash string
}

func parseHideNotice(r *http.Request) (*hideNoticeRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, notices.ErrMalformedRequest
	}
	req := &hideNoticeRequest{NoticeHash: strings.TrimSpace(r.PostForm.Get(fieldNoticeHash))}
	return req, req.validate()
}

func (req *hideNoticeRequest) validate() error {
	if req.NoticeHash == "" {
		return notices.ErrMalformedRequest
	}
	return nil
}

// dismissPointerRequest names the onboarding pointer the user closed.
type dismissPointerRequest struct {
	Pointer string
}

func parseDismissPointer(r *http.Request) (*dismissPointerRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, notices.ErrMalformedRequest
	}
	req := &dismissPointerRequest{Pointer: strings.TrimSpace(r.PostForm.Get(fieldPointer))}
	return req, req.validate()
}

func (req *dismissPointerRequest) validate() error {
	if req.Pointer == "" {
		return notices.ErrMalformedRequest
	}
	return nil
}
