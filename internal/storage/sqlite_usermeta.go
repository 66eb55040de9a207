package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteUserMetaRepo implements UserMetaRepository using SQLite.
type sqliteUserMetaRepo struct {
	db *sql.DB
}

func (r *sqliteUserMetaRepo) Get(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT meta_value FROM usermeta WHERE user_id = ? AND meta_key = ?",
		userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user meta %s: %w", key, err)
	}
	return value, nil
}

func (r *sqliteUserMetaRepo) Set(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO usermeta (user_id, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("set user meta %s: %w", key, err)
	}
	return nil
}

func (r *sqliteUserMetaRepo) Delete(ctx context.Context, userID, key string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM usermeta WHERE user_id = ? AND meta_key = ?", userID, key)
	if err != nil {
		return fmt.Errorf("delete user meta %s: %w", key, err)
	}
	return nil
}
