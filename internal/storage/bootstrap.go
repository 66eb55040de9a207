package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/adminnotices/internal/models"
)

// ensureAdminUser creates the default admin on an empty database and makes
// sure the installer option names a user. On an existing database without
// the option, the oldest account is recorded as the installer.
func ensureAdminUser(ctx context.Context, s Storage) error {
	count, err := s.Users().Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return ensureInstaller(ctx, s)
	}

	password := generateRandomPassword(16)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.Users().Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := s.Options().Set(ctx, models.OptionInstalledBy, admin.ID); err != nil {
		return fmt.Errorf("record installer: %w", err)
	}

	fmt.Printf("\n")
	fmt.Printf("===========================================\n")
	fmt.Printf("  DEFAULT ADMIN USER CREATED\n")
	fmt.Printf("  Username: admin\n")
	fmt.Printf("  Password: %s\n", password)
	fmt.Printf("  CHANGE THIS PASSWORD IMMEDIATELY!\n")
	fmt.Printf("===========================================\n")
	fmt.Printf("\n")

	return nil
}

func ensureInstaller(ctx context.Context, s Storage) error {
	if _, ok, err := s.Options().Get(ctx, models.OptionInstalledBy); err != nil {
		return fmt.Errorf("get installer: %w", err)
	} else if ok {
		return nil
	}

	users, err := s.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	var oldest *models.User
	for _, u := range users {
		if oldest == nil || u.CreatedAt.Before(oldest.CreatedAt) {
			oldest = u
		}
	}
	if oldest == nil {
		return nil
	}
	return s.Options().Set(ctx, models.OptionInstalledBy, oldest.ID)
}
