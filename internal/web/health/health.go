// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
)

// Checker is a dependency the server needs to be ready.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Handler serves the probe endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers []Checker
}

func NewHandler(checkers ...Checker) *Handler {
	return &Handler{checkers: checkers}
}

// RegisterChecker adds a dependency checker.
func (h *Handler) RegisterChecker(c Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, c)
}

// Response is the probe body.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live reports that the process is serving.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Status: "live"})
}

// Ready runs every checker and answers 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	checkers := append([]Checker(nil), h.checkers...)
	h.mu.RUnlock()

	resp := Response{Status: "ready", Checks: make(map[string]string, len(checkers))}
	status := http.StatusOK
	for _, c := range checkers {
		if err := c.Check(ctx); err != nil {
			resp.Checks[c.Name()] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name()] = "ok"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StorageChecker reads an option to prove the store answers.
type StorageChecker struct {
	options storage.OptionRepository
}

func NewStorageChecker(options storage.OptionRepository) *StorageChecker {
	return &StorageChecker{options: options}
}

func (c *StorageChecker) Name() string { return "storage" }

func (c *StorageChecker) Check(ctx context.Context) error {
	if c.options == nil {
		return fmt.Errorf("storage not initialized")
	}
	_, _, err := c.options.Get(ctx, models.OptionDateFormat)
	return err
}

// DirChecker verifies the notice directory is still readable.
type DirChecker struct {
	dir string
}

func NewDirChecker(dir string) *DirChecker {
	return &DirChecker{dir: dir}
}

func (c *DirChecker) Name() string { return "notice_dir" }

func (c *DirChecker) Check(ctx context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.dir)
	}
	return nil
}
