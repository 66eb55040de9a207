// Package handlers serves the admin pages and the notice AJAX endpoints.
package handlers

import (
	"time"

	"github.com/good-yellow-bee/adminnotices/internal/notices"
	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
)

// Config wires a Handler to its collaborators.
type Config struct {
	Storage  storage.Storage
	Sessions *session.Store
	Ledger   *notices.Ledger
	Notices  *notices.Registry
	Pointers *pointers.Sequencer
	Lockout  *LockoutTracker

	// HidingRoles lists the roles whose notices are gathered into the
	// collapsible panel. Other roles see notices inline.
	HidingRoles []string
	// Screen is the render phase of the admin page.
	Screen notices.Phase
	// SessionTTL is the lifetime of login sessions.
	SessionTTL time.Duration
}

type Handler struct {
	storage  storage.Storage
	sessions *session.Store
	ledger   *notices.Ledger
	notices  *notices.Registry
	pointers *pointers.Sequencer
	lockout  *LockoutTracker

	hidingRoles map[string]struct{}
	screen      notices.Phase
	sessionTTL  time.Duration
}

func NewHandler(cfg Config) *Handler {
	h := &Handler{
		storage:     cfg.Storage,
		sessions:    cfg.Sessions,
		ledger:      cfg.Ledger,
		notices:     cfg.Notices,
		pointers:    cfg.Pointers,
		lockout:     cfg.Lockout,
		hidingRoles: make(map[string]struct{}, len(cfg.HidingRoles)),
		screen:      cfg.Screen,
		sessionTTL:  cfg.SessionTTL,
	}
	for _, role := range cfg.HidingRoles {
		h.hidingRoles[role] = struct{}{}
	}
	if h.sessionTTL == 0 {
		h.sessionTTL = 24 * time.Hour
	}
	if h.screen == "" {
		h.screen = notices.PhaseAdmin
	}
	if h.notices == nil {
		h.notices = notices.NewRegistry()
	}
	return h
}

// hidingAllowed reports whether notices are gathered for role.
func (h *Handler) hidingAllowed(role string) bool {
	_, ok := h.hidingRoles[role]
	return ok
}
