// Package views renders the admin console pages as templ components.
package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

// CounterID is the admin bar item the browser script fills with the notice
// count. Pointers anchor on its list element.
const CounterID = "anm_notification_count"

// Page carries what every admin page needs.
type Page struct {
	Title   string
	Session *session.Session
	// Token is the anti-forgery token for forms and AJAX calls.
	Token string
	// CSPNonce allows the page's scripts under the content security policy.
	CSPNonce string
	// Active is the admin menu entry to highlight.
	Active string
	// Counter adds the notice counter to the admin bar.
	Counter bool
	// Pointers are the onboarding tooltips still pending for the viewer.
	Pointers []pointers.Pointer
}

type menuItem struct {
	id, href, label string
}

var adminMenu = []menuItem{
	{"menu-dashboard", "/admin", "Dashboard"},
	{"menu-settings", "/settings", "Settings"},
}

// Layout renders the admin chrome around body.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &errWriter{w: w}
		e.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		e.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		e.printf(`<title>%s &lsaquo; Admin Notices Manager</title>`, templ.EscapeString(p.Title))
		e.printf(`<link rel="stylesheet" href="/static/css/admin.css"></head>`)
		e.printf(`<body class="wp-admin" data-anm-ajax="/ajax" data-anm-nonce="%s">`, templ.EscapeString(p.Token))

		e.printf(`<div id="wpadminbar"><ul class="ab-top-menu">`)
		e.printf(`<li id="wp-admin-bar-site-name"><a class="ab-item" href="/admin">Admin Notices Manager</a></li>`)
		if p.Counter {
			if err := e.render(ctx, AdminBarCounter()); err != nil {
				return err
			}
		}
		if p.Session != nil {
			e.printf(`<li id="wp-admin-bar-my-account" class="ab-top-secondary">`)
			e.printf(`<span class="ab-item">Howdy, %s</span>`, templ.EscapeString(p.Session.Username))
			e.printf(`<form method="post" action="/logout"><input type="hidden" name="_nonce" value="%s">`, templ.EscapeString(p.Token))
			e.printf(`<button type="submit" class="ab-item button-link">Log Out</button></form></li>`)
		}
		e.printf(`</ul></div>`)

		e.printf(`<div id="adminmenuwrap"><ul id="adminmenu">`)
		for _, m := range adminMenu {
			class := "menu-top"
			if m.id == p.Active {
				class += " current"
			}
			e.printf(`<li id="%s" class="%s"><a href="%s">%s</a></li>`, m.id, class, m.href, m.label)
		}
		e.printf(`</ul></div>`)

		e.printf(`<div id="wpcontent"><div class="wrap"><h1>%s</h1>`, templ.EscapeString(p.Title))
		if err := e.render(ctx, body); err != nil {
			return err
		}
		e.printf(`</div></div>`)

		if len(p.Pointers) > 0 {
			data, err := json.Marshal(p.Pointers)
			if err != nil {
				return fmt.Errorf("encode pointers: %w", err)
			}
			e.printf(`<script type="application/json" id="anm-pointers">%s</script>`, data)
			e.printf(`<script src="/static/js/pointer.js" nonce="%s" defer></script>`, templ.EscapeString(p.CSPNonce))
		}
		if p.Counter {
			e.printf(`<script src="/static/js/notices.js" nonce="%s" defer></script>`, templ.EscapeString(p.CSPNonce))
		}
		e.printf(`</body></html>`)
		return e.err
	})
}

// AdminBarCounter is the admin bar item showing the number of notices.
func AdminBarCounter() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<li id="wp-admin-bar-%s" class="menupop"><a class="ab-item" href="#" role="button" aria-expanded="false">`+
				`<span class="anm-notification-count">No admin notices</span></a></li>`, CounterID)
		return err
	})
}

// errWriter keeps the first write error so markup can be emitted without
// checking each call.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) render(ctx context.Context, c templ.Component) error {
	if e.err != nil || c == nil {
		return e.err
	}
	e.err = c.Render(ctx, e.w)
	return e.err
}
