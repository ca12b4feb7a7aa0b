package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a new account. The password is bcrypt-hashed before it
// ever reaches the repository; a duplicate username surfaces as
// domain.ErrUsernameTaken from the insert's unique constraint.
func (uc *UseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Verify checks a username/password pair. A missing user and a wrong
// password are indistinguishable to the caller; both are an expected
// negative, not a fault.
func (uc *UseCase) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// CreateSession issues an opaque session for a verified user.
func (uc *UseCase) CreateSession(ctx context.Context, user *domain.User, ttl time.Duration) (*domain.Session, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession resolves a session ID to a live session.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RevokeSession terminates a session. Revoking an unknown or already
// revoked session is a no-op.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}
