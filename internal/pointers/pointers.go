// Package pointers sequences the one-time onboarding tooltips shown to the
// user who installed the notices manager.
package pointers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
)

// Pointer names.
const (
	AdminMenu    = "anm-admin-notifications-menu"
	SettingsMenu = "anm-admin-settings-menu"
)

// ErrInvalidName is returned for pointer names outside [a-z0-9_-].
var ErrInvalidName = errors.New("invalid pointer name")

var validName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Pointer is an onboarding tooltip anchored to a page element.
type Pointer struct {
	Name    string `json:"name"`
	Target  string `json:"target"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Edge    string `json:"edge"`
	Align   string `json:"align"`
	Class   string `json:"class,omitempty"`
}

// Default is the onboarding sequence, in display order.
var Default = []Pointer{
	{
		Name:    AdminMenu,
		Target:  "#wp-admin-bar-anm_notification_count",
		Title:   "Admin Notices Manager",
		Content: "From now onward, all the admin notices will be displayed here.",
		Edge:    "top",
		Align:   "center",
		Class:   "wp-pointer anm-pointer",
	},
	{
		Name:    SettingsMenu,
		Target:  "#menu-settings",
		Title:   "Configure the Admin Notices Manager",
		Content: "Configure how the plugin handles different types of admin notices from the Settings > Admin Notices menu item.",
		Edge:    "left",
		Align:   "center",
	},
}

// Sequencer decides which pointers a viewer still has to see.
type Sequencer struct {
	options  storage.OptionRepository
	userMeta storage.UserMetaRepository
	pointers []Pointer
}

// NewSequencer creates a sequencer over the given pointers. A nil list
// uses Default.
func NewSequencer(options storage.OptionRepository, userMeta storage.UserMetaRepository, list []Pointer) *Sequencer {
	if list == nil {
		list = Default
	}
	return &Sequencer{options: options, userMeta: userMeta, pointers: list}
}

// Eligible reports whether userID is the user recorded as installer.
func (s *Sequencer) Eligible(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	installer, ok, err := s.options.Get(ctx, models.OptionInstalledBy)
	if err != nil {
		return false, fmt.Errorf("get installer: %w", err)
	}
	return ok && installer == userID, nil
}

// Pending returns the pointers userID has not dismissed, in order. The
// browser opens the first and chains to the next as each one closes. It
// returns nil for viewers other than the installer.
func (s *Sequencer) Pending(ctx context.Context, userID string) ([]Pointer, error) {
	eligible, err := s.Eligible(ctx, userID)
	if err != nil || !eligible {
		return nil, err
	}

	dismissed, err := s.dismissed(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pending []Pointer
	for _, p := range s.pointers {
		if _, ok := dismissed[p.Name]; !ok {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// IsDismissed reports whether userID dismissed the named pointer.
func (s *Sequencer) IsDismissed(ctx context.Context, userID, name string) (bool, error) {
	dismissed, err := s.dismissed(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := dismissed[name]
	return ok, nil
}

// Dismiss records that userID closed the named pointer. Dismissing the
// same pointer again changes nothing.
func (s *Sequencer) Dismiss(ctx context.Context, userID, name string) error {
	if !validName.MatchString(name) {
		return ErrInvalidName
	}

	raw, err := s.userMeta.Get(ctx, userID, models.MetaDismissedPointer)
	if err != nil {
		return fmt.Errorf("get dismissed pointers: %w", err)
	}
	names := splitNames(raw)
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	names = append(names, name)

	if err := s.userMeta.Set(ctx, userID, models.MetaDismissedPointer, strings.Join(names, ",")); err != nil {
		return fmt.Errorf("save dismissed pointers: %w", err)
	}
	return nil
}

// Reset forgets every dismissal of userID.
func (s *Sequencer) Reset(ctx context.Context, userID string) error {
	if err := s.userMeta.Delete(ctx, userID, models.MetaDismissedPointer); err != nil {
		return fmt.Errorf("reset pointers: %w", err)
	}
	return nil
}

func (s *Sequencer) dismissed(ctx context.Context, userID string) (map[string]struct{}, error) {
	raw, err := s.userMeta.Get(ctx, userID, models.MetaDismissedPointer)
	if err != nil {
		return nil, fmt.Errorf("get dismissed pointers: %w", err)
	}
	set := make(map[string]struct{})
	for _, n := range splitNames(raw) {
		set[n] = struct{}{}
	}
	return set, nil
}

func splitNames(raw string) []string {
	var names []string
	for _, n := range strings.Split(raw, ",") {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
