package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// SessionRepository stores opaque sessions. Implementations exist for
// Redis and for a local bbolt file.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
