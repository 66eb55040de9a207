package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLayout_CounterAndScripts(t *testing.T) {
	out := render(t, Admin(Page{
		Session:  &session.Session{Username: "admin"},
		Token:    "tok\"en",
		CSPNonce: "n1",
		Counter:  true,
		Pointers: pointers.Default,
	}, nil))

	for _, want := range []string{
		`id="wp-admin-bar-anm_notification_count"`,
		`id="menu-settings"`,
		`data-anm-nonce="tok&#34;en"`,
		`id="anm-pointers"`,
		`"name":"anm-admin-notifications-menu"`,
		`src="/static/js/notices.js" nonce="n1"`,
		`Howdy, admin`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestLayout_NoCounterNoPointers(t *testing.T) {
	out := render(t, Admin(Page{Session: &session.Session{Username: "ed"}}, nil))

	if strings.Contains(out, "anm_notification_count") {
		t.Error("counter rendered for viewer without notice hiding")
	}
	if strings.Contains(out, "anm-pointers") || strings.Contains(out, "notices.js") {
		t.Error("scripts rendered without counter or pointers")
	}
}

func TestSettings_Rows(t *testing.T) {
	out := render(t, Settings(Page{}, []LedgerRow{
		{Fingerprint: "abc", FirstSeen: "October 16, 2026 9:30 am"},
		{Fingerprint: "def", Hidden: true},
	}))

	if !strings.Contains(out, "<code>abc</code></td><td>October 16, 2026 9:30 am</td><td>Visible</td>") {
		t.Error("visible row not rendered")
	}
	if !strings.Contains(out, "<code>def</code></td><td>&mdash;</td><td>Hidden forever</td>") {
		t.Error("hidden row not rendered")
	}
}

func TestSettings_Empty(t *testing.T) {
	out := render(t, Settings(Page{}, nil))
	if !strings.Contains(out, "No notices have been recorded yet.") {
		t.Error("empty state missing")
	}
}

func TestLogin_EscapesError(t *testing.T) {
	out := render(t, Login("t", "<b>bad</b>"))
	if strings.Contains(out, "<b>bad</b>") {
		t.Error("error message not escaped")
	}
	if !strings.Contains(out, `name="_nonce" value="t"`) {
		t.Error("token field missing")
	}
}
