package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/good-yellow-bee/adminnotices/internal/storage"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestReady_AllHealthy(t *testing.T) {
	h := NewHandler(NewStorageChecker(storage.NewMemoryStorage().Options()), NewDirChecker(t.TempDir()))

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp Response
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Checks["storage"] != "ok" || resp.Checks["notice_dir"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestReady_Failing(t *testing.T) {
	h := NewHandler(stubChecker{name: "db", err: errors.New("down")})
	h.RegisterChecker(NewDirChecker(filepath.Join(t.TempDir(), "missing")))

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp Response
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "not_ready" || resp.Checks["db"] != "down" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().Live(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
