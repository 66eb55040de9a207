package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LedgerRow is one notice ledger entry prepared for display.
type LedgerRow struct {
	Fingerprint string
	// FirstSeen is empty for notices hidden before they were ever seen.
	FirstSeen string
	Hidden    bool
}

// Settings renders the notice ledger inspection page.
func Settings(p Page, rows []LedgerRow) templ.Component {
	if p.Title == "" {
		p.Title = "Admin Notices"
	}
	p.Active = "menu-settings"
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &errWriter{w: w}
		if len(rows) == 0 {
			e.printf(`<p class="anm-empty">No notices have been recorded yet.</p>`)
			return e.err
		}
		e.printf(`<table class="widefat striped anm-ledger"><thead><tr>`)
		e.printf(`<th scope="col">Fingerprint</th><th scope="col">First seen</th><th scope="col">Status</th>`)
		e.printf(`</tr></thead><tbody>`)
		for _, r := range rows {
			status := "Visible"
			if r.Hidden {
				status = "Hidden forever"
			}
			first := r.FirstSeen
			if first == "" {
				first = "&mdash;"
			} else {
				first = templ.EscapeString(first)
			}
			e.printf(`<tr><td><code>%s</code></td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(r.Fingerprint), first, status)
		}
		e.printf(`</tbody></table>`)
		return e.err
	}))
}
