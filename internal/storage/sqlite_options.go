package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// sqliteOptionRepo implements OptionRepository using SQLite.
type sqliteOptionRepo struct {
	db *sql.DB
}

// Get returns the stored value of an option.
func (r *sqliteOptionRepo) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get option %s: %w", name, err)
	}
	return value, true, nil
}

// Set inserts or replaces an option.
func (r *sqliteOptionRepo) Set(ctx context.Context, name, value string) error {
	query := `
		INSERT INTO options (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, name, value, time.Now()); err != nil {
		return fmt.Errorf("set option %s: %w", name, err)
	}
	return nil
}

// Delete removes an option. Deleting a missing option is not an error.
func (r *sqliteOptionRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM options WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete option %s: %w", name, err)
	}
	return nil
}
