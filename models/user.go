package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the public projection of a user returned by listings
type UserSummary struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Summary returns the public projection of u
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}
