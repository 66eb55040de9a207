package notices

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Level is the visual severity of a notice.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelError, LevelWarning, LevelSuccess:
		return Level(s)
	default:
		return LevelInfo
	}
}

// StaticNotice is a fixed notice defined in configuration.
type StaticNotice struct {
	Level       Level
	Message     string
	Dismissible bool
}

// Notice renders a single notice banner with an escaped plain-text message.
func Notice(level Level, message string, dismissible bool) templ.Component {
	return RawNotice(level, "<p>"+templ.EscapeString(message)+"</p>", dismissible)
}

// RawNotice renders a notice banner around already-safe HTML.
func RawNotice(level Level, html string, dismissible bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "notice notice-" + string(level)
		if dismissible {
			class += " is-dismissible"
		}
		_, err := fmt.Fprintf(w, `<div class="%s">%s</div>`, class, html)
		return err
	})
}

// StaticProducer renders the given notices in order.
func StaticProducer(list []StaticNotice) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, n := range list {
			if err := Notice(n.Level, n.Message, n.Dismissible).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
