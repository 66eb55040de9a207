// Package models holds the records shared between storage, the notice
// ledger and the web layer.
package models

import "time"

// Option names persisted in the installation-wide option store.
const (
	OptionNotices        = "anm-notices"
	OptionHiddenNotices  = "anm-hidden-notices"
	OptionInstalledBy    = "anm-plugin-installed-by-user-id"
	OptionDateFormat     = "date_format"
	OptionTimeFormat     = "time_format"
	MetaDismissedPointer = "dismissed_wp_pointers"
)

// NoticeRecord is one row of the notice ledger as shown to administrators.
type NoticeRecord struct {
	Fingerprint string    `json:"fingerprint"`
	FirstSeen   time.Time `json:"first_seen"`
	Hidden      bool      `json:"hidden"`
}
