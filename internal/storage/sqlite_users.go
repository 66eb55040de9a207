package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/good-yellow-bee/adminnotices/internal/models"
)

const userColumns = "id, username, password_hash, role, created_at, updated_at"

type sqliteUserRepo struct {
	db *sql.DB
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return nil
}

// GetByID returns nil and no error when the user does not exist.
func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.lookup(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByUsername returns nil and no error when the user does not exist.
func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.lookup(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

func (r *sqliteUserRepo) lookup(ctx context.Context, query, arg string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", arg, err)
	}
	return u, nil
}

func (r *sqliteUserRepo) Update(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username = ?, password_hash = ?, role = ?, updated_at = ? WHERE id = ?",
		u.Username, u.PasswordHash, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	return nil
}

// List returns all users, oldest account first.
func (r *sqliteUserRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, username")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
