// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in with an email and password.
type User struct {
	ID           uuid.UUID // Assigned by storage on insert.
	Email        string    // Unique across all users; the login identifier.
	PasswordHash string    // Self-contained argon2id hash (algorithm, parameters, salt and key).
	CreatedAt    time.Time // Timestamp of when this user account was created.
}

// PublicUser is the view of a User that may leave the authentication service.
// It intentionally has no password hash field.
type PublicUser struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// Public strips the password hash from the user.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
