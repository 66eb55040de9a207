package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStep is one forward-only change to the database layout. The step's
// position in schemaSteps (1-based) is its version, stored in PRAGMA
// user_version once applied.
type schemaStep struct {
	name string
	ddl  []string
}

var schemaSteps = []schemaStep{
	{
		name: "users",
		ddl: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'viewer',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
		},
	},
	{
		// Site-wide key/value pairs: the notice ledger, the hidden set,
		// the installer ID and the display formats.
		name: "options",
		ddl: []string{
			`CREATE TABLE IF NOT EXISTS options (
				name TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
		},
	},
	{
		name: "usermeta",
		ddl: []string{
			`CREATE TABLE IF NOT EXISTS usermeta (
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				meta_key TEXT NOT NULL,
				meta_value TEXT NOT NULL,
				PRIMARY KEY (user_id, meta_key)
			)`,
		},
	},
}

// schemaVersion reports how many schema steps the database has applied.
func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// upgradeSchema applies every step past the stored version, each in its own
// transaction together with the version bump.
func upgradeSchema(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > len(schemaSteps) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(schemaSteps))
	}

	for i := current; i < len(schemaSteps); i++ {
		step := schemaSteps[i]
		if err := applyStep(ctx, db, i+1, step); err != nil {
			return fmt.Errorf("schema step %d (%s): %w", i+1, step.name, err)
		}
	}
	return nil
}

func applyStep(ctx context.Context, db *sql.DB, version int, step schemaStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range step.ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}
