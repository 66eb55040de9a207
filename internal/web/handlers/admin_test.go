package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
)

func TestShowAdmin_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.ShowAdmin(rec, httptest.NewRequest("GET", "/admin", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %s, want /login", loc)
	}
}

func TestShowAdmin_WrapsNoticesForHidingRoles(t *testing.T) {
	env := newTestEnv(t)
	env.registry.Add(notices.PhaseAll, notices.DefaultPriority, "static",
		notices.Notice(notices.LevelWarning, "Backups are disabled", false))

	rec := httptest.NewRecorder()
	env.h.ShowAdmin(rec, withSession(httptest.NewRequest("GET", "/admin", nil), "u1", "admin"))

	body := rec.Body.String()
	want := notices.WrapperOpen + `<div class="notice notice-warning"><p>Backups are disabled</p></div>` + notices.WrapperClose
	if !strings.Contains(body, want) {
		t.Errorf("wrapped notice missing from %s", body)
	}
	if !strings.Contains(body, "wp-admin-bar-anm_notification_count") {
		t.Error("counter missing for admin")
	}
}

func TestShowAdmin_BareNoticesForOtherRoles(t *testing.T) {
	env := newTestEnv(t)
	env.registry.Add(notices.PhaseAll, notices.DefaultPriority, "static",
		notices.Notice(notices.LevelInfo, "Hello", false))

	rec := httptest.NewRecorder()
	env.h.ShowAdmin(rec, withSession(httptest.NewRequest("GET", "/admin", nil), "u2", "editor"))

	body := rec.Body.String()
	if strings.Contains(body, "anm-notices-wrapper") {
		t.Error("notices wrapped for editor")
	}
	if !strings.Contains(body, "<p>Hello</p>") {
		t.Error("notice missing for editor")
	}
	if strings.Contains(body, "anm_notification_count") {
		t.Error("counter shown for editor")
	}
}

func TestShowAdmin_PointersOnlyForInstaller(t *testing.T) {
	env := newTestEnv(t)
	env.store.Options().Set(context.Background(), models.OptionInstalledBy, "u1")

	rec := httptest.NewRecorder()
	env.h.ShowAdmin(rec, withSession(httptest.NewRequest("GET", "/admin", nil), "u1", "admin"))
	if !strings.Contains(rec.Body.String(), `id="anm-pointers"`) {
		t.Error("pointers missing for installer")
	}

	rec = httptest.NewRecorder()
	env.h.ShowAdmin(rec, withSession(httptest.NewRequest("GET", "/admin", nil), "u3", "admin"))
	if strings.Contains(rec.Body.String(), `id="anm-pointers"`) {
		t.Error("pointers shown to another admin")
	}
}

func TestShowSettings_ListsLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.ledger.Reconcile(ctx, []string{"seen"}); err != nil {
		t.Fatal(err)
	}
	if err := env.ledger.Hide(ctx, "never-seen"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	env.h.ShowSettings(rec, withSession(httptest.NewRequest("GET", "/settings", nil), "u1", "admin"))

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(body, "<code>"+env.ledger.Fingerprint("seen")+"</code></td><td>October 16, 2026 9:30 am</td><td>Visible</td>") {
		t.Error("seen notice row missing")
	}
	if !strings.Contains(body, "<code>never-seen</code></td><td>&mdash;</td><td>Hidden forever</td>") {
		t.Error("hidden notice row missing")
	}
}
