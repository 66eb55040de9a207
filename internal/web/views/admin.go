package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Admin renders the admin landing page. notices is the rendered notice
// region, wrapped or bare depending on the viewer.
func Admin(p Page, notices templ.Component) templ.Component {
	if p.Title == "" {
		p.Title = "Dashboard"
	}
	p.Active = "menu-dashboard"
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &errWriter{w: w}
		if err := e.render(ctx, notices); err != nil {
			return err
		}
		e.printf(`<div id="dashboard-widgets-wrap"><p>Welcome to the admin area.</p></div>`)
		return e.err
	}))
}
