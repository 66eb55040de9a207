package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Login renders the sign-in form. errMsg, when set, is shown above it.
func Login(token, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &errWriter{w: w}
		e.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		e.printf(`<title>Log In &lsaquo; Admin Notices Manager</title>`)
		e.printf(`<link rel="stylesheet" href="/static/css/admin.css"></head><body class="login">`)
		e.printf(`<div id="login"><h1>Sign in to Admin Notices Manager</h1>`)
		if errMsg != "" {
			if err := e.render(ctx, Alert("error", errMsg)); err != nil {
				return err
			}
		}
		e.printf(`<form method="post" action="/login">`)
		e.printf(`<input type="hidden" name="_nonce" value="%s">`, templ.EscapeString(token))
		e.printf(`<p><label for="user_login">Username</label><input type="text" name="username" id="user_login" autocomplete="username" required></p>`)
		e.printf(`<p><label for="user_pass">Password</label><input type="password" name="password" id="user_pass" autocomplete="current-password" required></p>`)
		e.printf(`<p class="submit"><button type="submit" class="button button-primary">Log In</button></p>`)
		e.printf(`</form></div></body></html>`)
		return e.err
	})
}

// Alert renders a message box. kind is error, warning, success or info.
func Alert(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &errWriter{w: w}
		e.printf(`<div class="anm-alert anm-alert-%s" role="alert">%s</div>`,
			templ.EscapeString(kind), templ.EscapeString(message))
		return e.err
	})
}
