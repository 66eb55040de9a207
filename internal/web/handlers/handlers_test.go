package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	h        *Handler
	store    *storage.MemoryStorage
	sessions *session.Store
	ledger   *notices.Ledger
	registry *notices.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStorage()
	sessions := session.NewStore([]byte("test-secret"), time.Hour)
	ledger := notices.NewLedger(store.Options(), notices.LedgerConfig{
		Salt: "salt",
		Now:  func() time.Time { return testNow },
	})
	registry := notices.NewRegistry()
	h := NewHandler(Config{
		Storage:     store,
		Sessions:    sessions,
		Ledger:      ledger,
		Notices:     registry,
		Pointers:    pointers.NewSequencer(store.Options(), store.UserMeta(), nil),
		Lockout:     NewLockoutTracker(3, time.Minute),
		HidingRoles: []string{"admin"},
	})
	return &testEnv{h: h, store: store, sessions: sessions, ledger: ledger, registry: registry}
}

func withSession(req *http.Request, userID, role string) *http.Request {
	sess := &session.Session{UserID: userID, Username: userID, Role: role}
	return req.WithContext(session.NewContext(req.Context(), sess))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type ajaxBody struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
}

func decodeAjax(t *testing.T, rec *httptest.ResponseRecorder) ajaxBody {
	t.Helper()
	var body ajaxBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestShowLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.ShowLogin(rec, httptest.NewRequest("GET", "/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Sign in to Admin Notices Manager") {
		t.Error("response body missing login title")
	}
}

func TestHandleLogin_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.HandleLogin(rec, postForm("/login", url.Values{"username": {""}, "password": {""}}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.HandleLogin(rec, postForm("/login", url.Values{"username": {"ghost"}, "password": {"wrong"}}))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Error("response missing error message")
	}
}

func createUser(t *testing.T, env *testEnv, id, username, password string, role models.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := models.NewUser(username, role)
	u.ID = id
	u.PasswordHash = string(hash)
	if err := env.store.Users().Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "u1", "admin", "secret", models.RoleAdmin)

	rec := httptest.NewRecorder()
	env.h.HandleLogin(rec, postForm("/login", url.Values{"username": {"admin"}, "password": {"secret"}}))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("redirect = %q, want /admin", loc)
	}

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			token = c.Value
		}
	}
	sess, ok := env.sessions.Get(token)
	if !ok || sess.UserID != "u1" || sess.Role != "admin" {
		t.Errorf("session = %+v, ok = %v", sess, ok)
	}
}

func TestHandleLogin_Lockout(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "u1", "admin", "secret", models.RoleAdmin)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		env.h.HandleLogin(rec, postForm("/login", url.Values{"username": {"admin"}, "password": {"nope"}}))
	}

	rec := httptest.NewRecorder()
	env.h.HandleLogin(rec, postForm("/login", url.Values{"username": {"admin"}, "password": {"secret"}}))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestHandleLogout(t *testing.T) {
	env := newTestEnv(t)
	sess, _ := env.sessions.Create("u1", "admin", "admin")

	req := postForm("/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	env.h.HandleLogout(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if _, ok := env.sessions.Get(sess.ID); ok {
		t.Error("session still valid after logout")
	}
}

func TestLogNotices_StatusesInRequestOrder(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := withSession(postForm("/ajax/log-notices", url.Values{"notices[]": {"first", "second"}}), "u1", "admin")
	env.h.LogNotices(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeAjax(t, rec)
	if !body.Success || len(body.Data) != 2 {
		t.Fatalf("body = %s", rec.Body.String())
	}

	for i, text := range []string{"first", "second"} {
		var pair [2]string
		if err := json.Unmarshal(body.Data[i], &pair); err != nil {
			t.Fatalf("status %d: %v", i, err)
		}
		if pair[0] != env.ledger.Fingerprint(text) {
			t.Errorf("status %d fingerprint = %s", i, pair[0])
		}
		if pair[1] != "October 16, 2026 9:30 am" {
			t.Errorf("status %d display = %q", i, pair[1])
		}
	}
}

func TestLogNotices_HiddenNotice(t *testing.T) {
	env := newTestEnv(t)
	if err := env.ledger.Hide(context.Background(), env.ledger.Fingerprint("gone")); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	req := withSession(postForm("/ajax/log-notices", url.Values{"notices[]": {"gone", "kept"}}), "u1", "admin")
	env.h.LogNotices(rec, req)

	body := decodeAjax(t, rec)
	if string(body.Data[0]) != `"do-not-display"` {
		t.Errorf("hidden status = %s", body.Data[0])
	}
	if !strings.HasPrefix(string(body.Data[1]), `["`) {
		t.Errorf("visible status = %s", body.Data[1])
	}
}

func TestLogNotices_Malformed(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.LogNotices(rec, withSession(postForm("/ajax/log-notices", url.Values{}), "u1", "admin"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

type failingOptions struct{}

var errBroken = errors.New("database is closed")

func (failingOptions) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (failingOptions) Set(context.Context, string, string) error          { return errBroken }
func (failingOptions) Delete(context.Context, string) error               { return errBroken }

func TestLogNotices_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.h.ledger = notices.NewLedger(failingOptions{}, notices.LedgerConfig{Salt: "salt"})

	rec := httptest.NewRecorder()
	env.h.LogNotices(rec, withSession(postForm("/ajax/log-notices", url.Values{"notices[]": {"x"}}), "u1", "admin"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := decodeAjax(t, rec); body.Success {
		t.Error("success reported for failed request")
	}
}

func TestHideNoticeForever(t *testing.T) {
	env := newTestEnv(t)
	fp := env.ledger.Fingerprint("annoying")

	rec := httptest.NewRecorder()
	env.h.HideNoticeForever(rec, withSession(postForm("/ajax/hide-notice-forever", url.Values{"notice_hash": {fp}}), "u1", "admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
		t.Errorf("body = %s", got)
	}
	hidden, err := env.ledger.IsHidden(context.Background(), fp)
	if err != nil || !hidden {
		t.Errorf("IsHidden = %v, %v", hidden, err)
	}
}

func TestHideNoticeForever_MissingHash(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.HideNoticeForever(rec, withSession(postForm("/ajax/hide-notice-forever", url.Values{"notice_hash": {" "}}), "u1", "admin"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if _, ok, _ := env.store.Options().Get(context.Background(), models.OptionHiddenNotices); ok {
		t.Error("hidden set written for malformed request")
	}
}

func TestDismissPointer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		env.h.DismissPointer(rec, withSession(postForm("/ajax/dismiss-pointer", url.Values{"pointer": {pointers.AdminMenu}}), "u1", "admin"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d", i, rec.Code)
		}
	}

	raw, _ := env.store.UserMeta().Get(ctx, "u1", models.MetaDismissedPointer)
	if raw != pointers.AdminMenu {
		t.Errorf("dismissed = %q, want %q", raw, pointers.AdminMenu)
	}
}

func TestDismissPointer_InvalidName(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.DismissPointer(rec, withSession(postForm("/ajax/dismiss-pointer", url.Values{"pointer": {"Bad Name!"}}), "u1", "admin"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
