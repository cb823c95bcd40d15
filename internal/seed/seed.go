// Package seed creates default data after migrations.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/auth"
)

// UserStore is the subset of the user repository seeding needs
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// Admin describes the default administrator account
type Admin struct {
	Email    string
	Name     string
	Password string
}

// CreateDefaultData creates the default admin account if it doesn't exist.
// An empty password disables seeding.
func CreateDefaultData(ctx context.Context, users UserStore, admin Admin, lgr zerolog.Logger) error {
	if admin.Password == "" {
		lgr.Info().Msg("No admin password configured, skipping default data")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	lgr.Info().Str("email", email).Msg("Checking/Creating default admin user...")

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("checking admin user: %w", err)
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         admin.Name,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		// Another instance may have won the race.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("creating admin user: %w", err)
	}

	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}
