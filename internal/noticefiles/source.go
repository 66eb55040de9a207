// Package noticefiles serves admin notices from a directory of files that
// operators can edit while the server runs.
//
// Each regular file named NAME.LEVEL.html or NAME.LEVEL.txt becomes one
// notice; LEVEL is error, warning, success or info. HTML bodies are
// sanitized, text bodies are escaped. Notices render in file-name order.
package noticefiles

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/fsnotify/fsnotify"
	"github.com/microcosm-cc/bluemonday"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
)

type fileNotice struct {
	name  string
	level notices.Level
	html  string
}

// Source is a notice producer backed by a directory.
type Source struct {
	dir    string
	policy *bluemonday.Policy

	mu      sync.RWMutex
	notices []fileNotice
}

// New creates a Source for dir. Call Load or Watch to read it.
func New(dir string) *Source {
	return &Source{
		dir:    dir,
		policy: bluemonday.UGCPolicy(),
	}
}

// Dir returns the watched directory.
func (s *Source) Dir() string {
	return s.dir
}

// Len returns the number of loaded notices.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notices)
}

// Load rereads the directory, replacing the loaded notices. A missing
// directory yields no notices.
func (s *Source) Load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read notice directory: %w", err)
	}

	var loaded []fileNotice
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		n, ok, err := s.readFile(e.Name())
		if err != nil {
			log.Printf("skip notice file %s: %v", e.Name(), err)
			continue
		}
		if ok {
			loaded = append(loaded, n)
		}
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].name < loaded[j].name })

	s.mu.Lock()
	s.notices = loaded
	s.mu.Unlock()

	metrics.NoticeFilesLoaded.Set(float64(len(loaded)))
	metrics.NoticeFileReloadsTotal.Inc()
	return nil
}

func (s *Source) readFile(name string) (fileNotice, bool, error) {
	ext := filepath.Ext(name)
	if ext != ".html" && ext != ".txt" {
		return fileNotice{}, false, nil
	}
	if strings.HasPrefix(name, ".") {
		return fileNotice{}, false, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fileNotice{}, false, err
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return fileNotice{}, false, nil
	}

	stem := strings.TrimSuffix(name, ext)
	level := notices.LevelInfo
	if i := strings.LastIndexByte(stem, '.'); i >= 0 {
		level = notices.ParseLevel(stem[i+1:])
	}

	var html string
	if ext == ".html" {
		html = s.policy.Sanitize(body)
	} else {
		html = "<p>" + escape(body) + "</p>"
	}
	return fileNotice{name: name, level: level, html: html}, true, nil
}

// Render implements templ.Component.
func (s *Source) Render(ctx context.Context, w io.Writer) error {
	s.mu.RLock()
	list := s.notices
	s.mu.RUnlock()

	for _, n := range list {
		if err := notices.RawNotice(n.level, n.html, true).Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Watch loads the directory and reloads it on every change until ctx is
// cancelled. The directory must exist.
func (s *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", s.dir, err)
	}
	if err := s.Load(); err != nil {
		return err
	}
	log.Printf("watching %s for notice files (%d loaded)", s.dir, s.Len())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if err := s.Load(); err != nil {
				log.Printf("reload notice directory: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("notice directory watcher: %v", err)
		}
	}
}

// escape renders plain text safe for HTML, turning blank lines into
// paragraph breaks.
func escape(text string) string {
	out := templ.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return strings.ReplaceAll(out, "\n\n", "</p><p>")
}
