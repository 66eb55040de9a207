// Package notices implements the notice ledger, the capture wrapper that
// groups rendered notices, and the registry of notice producers.
package notices

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
)

// DoNotDisplay is the status sent for notices the user hid forever.
const DoNotDisplay = "do-not-display"

// Default display layouts, used when the date_format and time_format
// options are unset.
const (
	DefaultDateFormat = "January 2, 2006"
	DefaultTimeFormat = "3:04 pm"
)

// Status is the reconciliation result for one observed notice.
type Status struct {
	Fingerprint string
	FirstSeen   time.Time
	// Display is FirstSeen rendered with the configured layouts.
	Display string
	Hidden  bool
}

// MarshalJSON encodes a visible status as [fingerprint, display] and a
// hidden one as the DoNotDisplay string.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Hidden {
		return json.Marshal(DoNotDisplay)
	}
	return json.Marshal([2]string{s.Fingerprint, s.Display})
}

// LedgerConfig configures a Ledger.
type LedgerConfig struct {
	// Salt keys the notice fingerprints.
	Salt string
	// Location is the display time zone. Defaults to UTC.
	Location *time.Location
	// DateFormat and TimeFormat are fallback Go layouts.
	DateFormat string
	TimeFormat string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Ledger reconciles observed notices against their first-seen times and
// the set of notices hidden forever. Both are stored in the option store.
//
// Reconcile and Hide do an unlocked read-modify-write of their option, so
// two concurrent requests may lose one another's additions. A lost ledger
// entry is re-added on the next page load.
type Ledger struct {
	options storage.OptionRepository
	fp      *Fingerprinter
	loc     *time.Location
	now     func() time.Time

	dateFormat string
	timeFormat string
}

// NewLedger creates a ledger backed by the given option store.
func NewLedger(options storage.OptionRepository, cfg LedgerConfig) *Ledger {
	l := &Ledger{
		options:    options,
		fp:         NewFingerprinter(cfg.Salt),
		loc:        cfg.Location,
		now:        cfg.Now,
		dateFormat: cfg.DateFormat,
		timeFormat: cfg.TimeFormat,
	}
	if l.loc == nil {
		l.loc = time.UTC
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.dateFormat == "" {
		l.dateFormat = DefaultDateFormat
	}
	if l.timeFormat == "" {
		l.timeFormat = DefaultTimeFormat
	}
	return l
}

// Fingerprint returns the fingerprint of a notice text.
func (l *Ledger) Fingerprint(text string) string {
	return l.fp.Fingerprint(text)
}

// Reconcile returns one status per observed notice text, in input order.
// Unknown fingerprints are recorded with the current time; known ones keep
// their stored time. Hidden fingerprints report DoNotDisplay.
func (l *Ledger) Reconcile(ctx context.Context, texts []string) ([]Status, error) {
	if len(texts) == 0 {
		return nil, ErrMalformedRequest
	}

	seen, err := l.loadSeen(ctx)
	if err != nil {
		return nil, err
	}
	hidden, err := l.loadHidden(ctx)
	if err != nil {
		return nil, err
	}
	layout, err := l.layout(ctx)
	if err != nil {
		return nil, err
	}

	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		hiddenSet[h] = struct{}{}
	}

	now := l.now().Unix()
	added := 0
	suppressed := 0
	statuses := make([]Status, len(texts))
	for i, text := range texts {
		fp := l.fp.Fingerprint(text)

		ts, ok := seen[fp]
		if !ok {
			ts = now
			seen[fp] = ts
			added++
		}

		first := time.Unix(ts, 0).In(l.loc)
		statuses[i] = Status{
			Fingerprint: fp,
			FirstSeen:   first,
			Display:     first.Format(layout),
		}
		if _, ok := hiddenSet[fp]; ok {
			statuses[i].Hidden = true
			suppressed++
		}
	}

	if added > 0 {
		if err := l.saveJSON(ctx, models.OptionNotices, seen); err != nil {
			return nil, err
		}
	}

	metrics.NoticesObservedTotal.Add(float64(len(texts)))
	metrics.NoticesFirstSeenTotal.Add(float64(added))
	metrics.NoticesSuppressedTotal.Add(float64(suppressed))

	return statuses, nil
}

// Hide appends fingerprint to the hidden set. Duplicates are stored as-is.
func (l *Ledger) Hide(ctx context.Context, fingerprint string) error {
	if strings.TrimSpace(fingerprint) == "" {
		return ErrMalformedRequest
	}

	hidden, err := l.loadHidden(ctx)
	if err != nil {
		return err
	}
	hidden = append(hidden, fingerprint)
	if err := l.saveJSON(ctx, models.OptionHiddenNotices, hidden); err != nil {
		return err
	}

	metrics.NoticesHiddenTotal.Inc()
	return nil
}

// IsHidden reports whether fingerprint is in the hidden set.
func (l *Ledger) IsHidden(ctx context.Context, fingerprint string) (bool, error) {
	hidden, err := l.loadHidden(ctx)
	if err != nil {
		return false, err
	}
	for _, h := range hidden {
		if h == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

// Entries lists every fingerprint in the ledger or the hidden set, oldest
// first. Hidden fingerprints never observed have a zero FirstSeen.
func (l *Ledger) Entries(ctx context.Context) ([]models.NoticeRecord, error) {
	seen, err := l.loadSeen(ctx)
	if err != nil {
		return nil, err
	}
	hidden, err := l.loadHidden(ctx)
	if err != nil {
		return nil, err
	}

	byFP := make(map[string]*models.NoticeRecord, len(seen))
	for fp, ts := range seen {
		byFP[fp] = &models.NoticeRecord{Fingerprint: fp, FirstSeen: time.Unix(ts, 0).In(l.loc)}
	}
	for _, fp := range hidden {
		rec, ok := byFP[fp]
		if !ok {
			rec = &models.NoticeRecord{Fingerprint: fp}
			byFP[fp] = rec
		}
		rec.Hidden = true
	}

	records := make([]models.NoticeRecord, 0, len(byFP))
	for _, rec := range byFP {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].FirstSeen.Equal(records[j].FirstSeen) {
			return records[i].FirstSeen.Before(records[j].FirstSeen)
		}
		return records[i].Fingerprint < records[j].Fingerprint
	})
	return records, nil
}

// ResetScope selects what Reset clears.
type ResetScope int

const (
	ResetLedger ResetScope = 1 << iota
	ResetHidden
	ResetAll = ResetLedger | ResetHidden
)

// Reset clears persisted ledger data. The running server never calls it;
// it is the manual reset offered by the admin CLI.
func (l *Ledger) Reset(ctx context.Context, scope ResetScope) error {
	if scope&ResetLedger != 0 {
		if err := l.options.Delete(ctx, models.OptionNotices); err != nil {
			return fmt.Errorf("reset ledger: %w", err)
		}
	}
	if scope&ResetHidden != 0 {
		if err := l.options.Delete(ctx, models.OptionHiddenNotices); err != nil {
			return fmt.Errorf("reset hidden notices: %w", err)
		}
	}
	return nil
}

// Format renders t with the configured display layouts and time zone.
func (l *Ledger) Format(ctx context.Context, t time.Time) (string, error) {
	layout, err := l.layout(ctx)
	if err != nil {
		return "", err
	}
	return t.In(l.loc).Format(layout), nil
}

// layout combines the date and time layouts, preferring stored options.
func (l *Ledger) layout(ctx context.Context) (string, error) {
	date, ok, err := l.options.Get(ctx, models.OptionDateFormat)
	if err != nil {
		return "", fmt.Errorf("load date format: %w", err)
	}
	if !ok || date == "" {
		date = l.dateFormat
	}
	clock, ok, err := l.options.Get(ctx, models.OptionTimeFormat)
	if err != nil {
		return "", fmt.Errorf("load time format: %w", err)
	}
	if !ok || clock == "" {
		clock = l.timeFormat
	}
	return date + " " + clock, nil
}

func (l *Ledger) loadSeen(ctx context.Context) (map[string]int64, error) {
	seen := make(map[string]int64)
	if err := l.loadJSON(ctx, models.OptionNotices, &seen); err != nil {
		return nil, err
	}
	return seen, nil
}

func (l *Ledger) loadHidden(ctx context.Context) ([]string, error) {
	var hidden []string
	if err := l.loadJSON(ctx, models.OptionHiddenNotices, &hidden); err != nil {
		return nil, err
	}
	return hidden, nil
}

func (l *Ledger) loadJSON(ctx context.Context, name string, dst any) error {
	raw, ok, err := l.options.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	// An empty mapping may be stored as an empty list.
	if !ok || raw == "" || raw == "[]" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (l *Ledger) saveJSON(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := l.options.Set(ctx, name, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
