// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "authapi/internal/delivery/context"
	"authapi/internal/delivery/http/response"
	"authapi/internal/delivery/http/validator"
	"authapi/internal/domain/entity"
	domainerrors "authapi/internal/domain/errors"
	"authapi/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// errInvalidInput is returned when the body is not a JSON credentials object.
var errInvalidInput = domainerrors.NewBaseError(
	http.StatusBadRequest,
	"INVALID_INPUT",
	"Invalid credentials input",
	"",
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler holds dependencies for the signup and signin handlers.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// CredentialsRequest is the request body of both signup and signin.
// Fields not listed here are ignored.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the sanitized user returned to clients.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.PublicUser) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// SignUp handles the registration request.
func (h *AuthHandler) SignUp(c echo.Context) error {
	input, err := h.bindCredentials(c)
	if err != nil {
		return err
	}

	output, err := h.authUC.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(output.User), "User registered successfully")
}

// SignIn handles the login request.
func (h *AuthHandler) SignIn(c echo.Context) error {
	input, err := h.bindCredentials(c)
	if err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(output.User), "Login successful")
}

func (h *AuthHandler) bindCredentials(c echo.Context) (*usecase.CredentialsInput, error) {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		logger.Debug("Rejected malformed credentials body", slog.String("path", c.Path()), slog.Any("error", err))

		return nil, errInvalidInput
	}

	// Only rule names are logged; field values may hold the password.
	if err := c.Validate(&req); err != nil {
		details := validator.Describe(err)
		logger.Debug("Rejected invalid credentials", slog.String("path", c.Path()), slog.String("violations", details))

		return nil, domainerrors.ErrValidationFailed.WithDetails(details)
	}

	return &usecase.CredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	}, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
