// Package storage provides the option, user-meta and user stores and their
// SQLite and in-memory implementations.
package storage

import (
	"context"

	"github.com/good-yellow-bee/adminnotices/internal/models"
)

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// EnsureAdminUser creates a default admin if no users exist and records
	// the installing user.
	EnsureAdminUser() error

	Users() UserRepository
	Options() OptionRepository
	UserMeta() UserMetaRepository
}

// UserRepository defines operations for user management.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// OptionRepository is the installation-wide key-value store.
// Get reports ok=false when the option has never been set.
type OptionRepository interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// UserMetaRepository stores per-user key-value pairs.
// Get returns "" for a missing key.
type UserMetaRepository interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
	Delete(ctx context.Context, userID, key string) error
}
