package noticefiles

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func render(t *testing.T, s *Source) string {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLoad_ParsesLevelsAndSanitizes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-backup.warning.html", `<p>Backup <strong>overdue</strong></p><script>alert(1)</script>`)
	writeFile(t, dir, "20-welcome.txt", "Hello <admin>\n\nSecond paragraph")
	writeFile(t, dir, "README.md", "ignored")
	writeFile(t, dir, ".hidden.html", "<p>ignored</p>")
	writeFile(t, dir, "30-empty.error.html", "   ")

	s := New(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	out := render(t, s)
	if strings.Contains(out, "<script>") {
		t.Errorf("script survived sanitizing: %s", out)
	}
	if !strings.Contains(out, `<div class="notice notice-warning is-dismissible"><p>Backup <strong>overdue</strong></p></div>`) {
		t.Errorf("warning notice missing: %s", out)
	}
	if !strings.Contains(out, `<div class="notice notice-info is-dismissible"><p>Hello &lt;admin&gt;</p><p>Second paragraph</p></div>`) {
		t.Errorf("text notice missing: %s", out)
	}
	if strings.Index(out, "Backup") > strings.Index(out, "Hello") {
		t.Error("notices not in file-name order")
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatch_ReloadsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	s := New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	waitFor(t, func() bool { return s.Len() == 0 })
	writeFile(t, dir, "maintenance.error.txt", "Maintenance tonight")
	waitFor(t, func() bool { return s.Len() == 1 })

	os.Remove(filepath.Join(dir, "maintenance.error.txt"))
	waitFor(t, func() bool { return s.Len() == 0 })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}
