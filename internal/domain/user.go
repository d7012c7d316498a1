package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Theme represents the UI theme stored in user settings
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User represents a registered user entity in the domain layer
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate ensures the user adheres to domain rules
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username cannot be empty")
	}
	if u.Email == "" {
		return errors.New("email cannot be empty")
	}
	return nil
}

// RefreshToken represents a persisted opaque refresh token for a user session
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// UserSettings represents per-user preferences
type UserSettings struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Theme     Theme
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
