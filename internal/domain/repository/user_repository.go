// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authapi/internal/domain/entity"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when an insert violates the unique email constraint.
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserRepository defines the credential store operations.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// Create persists a new user and fills in the storage-generated ID and CreatedAt.
	// Uniqueness of the email is left to the storage constraint; a violation yields ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a single user by their email address, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
