// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authapi/internal/domain/entity"
)

// --- Input DTOs ---

// CredentialsInput is the email/password pair supplied on sign-up and sign-in.
// Callers validate it before invoking the usecase.
type CredentialsInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user without the password hash.
type RegisterOutput struct {
	User *entity.PublicUser
}

// LoginOutput returns the authenticated user without the password hash.
type LoginOutput struct {
	User *entity.PublicUser
}

// AuthUsecase defines the credential authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register hashes the password and stores a new user.
	// It fails with domainerrors.ErrEmailAlreadyExists when the email is taken.
	Register(ctx context.Context, input *CredentialsInput) (*RegisterOutput, error)

	// Login verifies the password of an existing user.
	// Unknown email and wrong password both fail with domainerrors.ErrInvalidCredentials.
	Login(ctx context.Context, input *CredentialsInput) (*LoginOutput, error)
}
