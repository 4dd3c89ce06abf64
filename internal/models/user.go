package models

import (
	"fmt"
	"strings"
	"time"
)

// User is an account record. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks that the user has an email and a stored hash.
func (u User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

// Session is a login session identified by an opaque token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session expiry has passed at time now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
