package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyslot/studyslot-api/internal/models"
)

type seedUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type demoAccount struct {
	name     string
	email    string
	role     models.UserRole
	password string
}

// Demo credentials for local development only.
var demoAccounts = []demoAccount{
	{name: "Student One", email: "student@example.com", role: models.RoleStudent, password: "student123"},
	{name: "Tutor One", email: "tutor@example.com", role: models.RoleTutor, password: "tutor123"},
	{name: "Admin User", email: "admin@example.com", role: models.RoleAdmin, password: "admin123"},
}

// SeedDemoUsers creates the demo accounts when they do not exist yet. All
// identities go through the user repository; there is no parallel store.
func SeedDemoUsers(ctx context.Context, repo seedUserRepository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, account := range demoAccounts {
		_, err := repo.FindByEmail(ctx, account.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check seed account %s: %w", account.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		user := &models.User{
			Name:         account.name,
			Email:        account.email,
			Role:         account.role,
			PasswordHash: string(hash),
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("create seed account %s: %w", account.email, err)
		}
		logger.Info("seeded demo account", zap.String("email", account.email), zap.String("role", string(account.role)))
	}

	return nil
}
