package domain

import "time"

// User represents a registered account. PasswordHash only ever holds the
// bcrypt digest, never the plaintext.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
