package notices

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Markers bracketing the notice region. The container starts hidden; the
// browser script reveals it once it has counted and sorted the notices.
const (
	WrapperOpen  = `<div class="anm-notices-wrapper" style="display: none;">`
	WrapperClose = `</div><!-- /.anm-notices-wrapper -->`
)

// Fragment is a region of page output delimited by fixed open and close
// markers. The body streams straight to the writer between them.
type Fragment struct {
	Open  string
	Body  templ.Component
	Close string
}

// Wrap places body inside the notice container.
func Wrap(body templ.Component) Fragment {
	return Fragment{Open: WrapperOpen, Body: body, Close: WrapperClose}
}

// Render implements templ.Component. The close marker is written even when
// the body fails so the page structure stays balanced.
func (f Fragment) Render(ctx context.Context, w io.Writer) error {
	if _, err := io.WriteString(w, f.Open); err != nil {
		return err
	}
	var bodyErr error
	if f.Body != nil {
		bodyErr = f.Body.Render(ctx, w)
	}
	if _, err := io.WriteString(w, f.Close); err != nil {
		return err
	}
	return bodyErr
}
