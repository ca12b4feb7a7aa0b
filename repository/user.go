package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

type UserRepository interface {
	// Create persists a new user in a single insert. A duplicate username
	// surfaces as domain.ErrUsernameTaken via the unique constraint, never
	// through a pre-check.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
