package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

var sessionBucket = []byte("sessions")

// Store is a bbolt-backed session repository for environments without
// Redis. Expired sessions are invisible to Get immediately; the file is
// compacted by Sweep, which the server schedules periodically.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
}

var _ repository.SessionRepository = (*Store)(nil)

// Open initializes the bbolt file and ensures the session bucket exists.
func Open(path string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, ttl: ttl}, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionBucket).Get([]byte(id))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		return json.Unmarshal(raw, &session)
	})
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(s.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(session.ID), payload)
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(id))
	})
}

// Sweep removes sessions that expired before the reference time and
// returns how many were dropped.
func (s *Store) Sweep(reference time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(sessionBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var session domain.Session
			if err := json.Unmarshal(v, &session); err != nil {
				// Unreadable entries are dead weight; drop them too.
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
				continue
			}
			if session.IsExpired(reference) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// Size reports the number of stored sessions, expired or not.
func (s *Store) Size() (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(sessionBucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close releases the underlying bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}
