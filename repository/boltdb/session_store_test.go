package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveGetDelete(t *testing.T) {
	store := openTestStore(t, time.Hour)
	ctx := context.Background()

	session := &domain.Session{
		ID:       "abc123",
		UserID:   42,
		Username: "alice",
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.ExpiresAt.IsZero())

	require.NoError(t, store.Delete(ctx, "abc123"))
	_, err = store.Get(ctx, "abc123")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStoreRejectsEmptyID(t *testing.T) {
	store := openTestStore(t, time.Hour)
	err := store.Save(context.Background(), &domain.Session{})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestStoreExpiredSessionInvisible(t *testing.T) {
	store := openTestStore(t, time.Hour)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "stale",
		UserID:    1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(ctx, session))

	_, err := store.Get(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStoreSweep(t *testing.T) {
	store := openTestStore(t, time.Hour)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, &domain.Session{
		ID:        "expired",
		UserID:    1,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, store.Save(ctx, &domain.Session{
		ID:        "live",
		UserID:    2,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))

	removed, err := store.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}
