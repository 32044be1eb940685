// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "authapi/internal/delivery/context"
	"authapi/internal/domain/entity"
	domainerrors "authapi/internal/domain/errors"
	"authapi/internal/domain/repository"
	"authapi/internal/domain/service"
	"authapi/internal/infra/metrics"
	"authapi/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// timingDummyPassword is hashed once and verified against when the email is unknown,
// so both login failures cost one hash verification.
const timingDummyPassword = "timing-equalization-placeholder"

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	metrics  *metrics.AuthMetrics
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Metrics  *metrics.AuthMetrics `optional:"true"`
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
}

// Register hashes the password and creates the user. Duplicate emails are
// detected by the storage constraint, never by a prior lookup.
func (srv *authService) Register(ctx context.Context, input *usecase.CredentialsInput) (*usecase.RegisterOutput, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)

	hashedPassword, err := srv.hash(input.Password)
	if err != nil {
		srv.metrics.ObserveRegister(metrics.ResultError)
		logger.Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("user registration failed")
	}

	newUser := &entity.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.metrics.ObserveRegister(metrics.ResultConflict)

			return nil, domainerrors.ErrEmailAlreadyExists.WrapMessage("user registration failed")
		}
		srv.metrics.ObserveRegister(metrics.ResultError)

		// Unclassified storage failures go back to the caller untouched.
		return nil, err
	}

	srv.metrics.ObserveRegister(metrics.ResultSuccess)
	logger.Debug("User registered successfully", slog.String("userID", newUser.ID.String()))

	return &usecase.RegisterOutput{User: newUser.Public()}, nil
}

// Login looks the user up by email and verifies the password.
func (srv *authService) Login(ctx context.Context, input *usecase.CredentialsInput) (*usecase.LoginOutput, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.burnVerification(input.Password)
			srv.metrics.ObserveLogin(metrics.ResultInvalidCredentials)

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}
		srv.metrics.ObserveLogin(metrics.ResultError)

		return nil, err
	}

	start := time.Now()
	matched := srv.hasher.Check(input.Password, user.PasswordHash)
	srv.metrics.ObserveHash(start)
	if !matched {
		srv.metrics.ObserveLogin(metrics.ResultInvalidCredentials)

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.metrics.ObserveLogin(metrics.ResultSuccess)
	logger.Debug("User logged in successfully", slog.String("userID", user.ID.String()))

	return &usecase.LoginOutput{User: user.Public()}, nil
}

func (srv *authService) hash(password string) (string, error) {
	start := time.Now()
	defer srv.metrics.ObserveHash(start)

	return srv.hasher.Hash(password)
}

// burnVerification runs one verification against a fixed hash and discards the result.
func (srv *authService) burnVerification(password string) {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(timingDummyPassword)
		if err != nil {
			srv.logger.Warn("Failed to prepare timing equalization hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	if srv.dummyHash == "" {
		return
	}

	start := time.Now()
	_ = srv.hasher.Check(password, srv.dummyHash)
	srv.metrics.ObserveHash(start)
}
