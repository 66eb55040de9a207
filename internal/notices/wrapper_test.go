package notices

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestWrap_StreamsBodyBetweenMarkers(t *testing.T) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="notice">a & b</div>`)
		return err
	})

	var buf bytes.Buffer
	if err := Wrap(body).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := WrapperOpen + `<div class="notice">a & b</div>` + WrapperClose
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if !strings.Contains(WrapperOpen, "display: none") {
		t.Error("container must start hidden")
	}
}

func TestWrap_EmptyBody(t *testing.T) {
	var buf bytes.Buffer
	Wrap(nil).Render(context.Background(), &buf)
	if buf.String() != WrapperOpen+WrapperClose {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWrap_ClosesOnBodyError(t *testing.T) {
	boom := errors.New("boom")
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})

	var buf bytes.Buffer
	err := Wrap(body).Render(context.Background(), &buf)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if !strings.HasSuffix(buf.String(), WrapperClose) {
		t.Errorf("close marker missing: %q", buf.String())
	}
}
