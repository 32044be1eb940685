package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authapi/internal/delivery/http/validator"
	domainerrors "authapi/internal/domain/errors"
	mockUsecase "authapi/internal/mocks/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*AuthHandler, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return NewAuthHandler(AuthHandlerParams{
		AuthUC: mockUsecase.NewMockAuthUsecase(t),
		Logger: logger,
	}), &logs
}

func newJSONContext(body string) echo.Context {
	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return e.NewContext(req, httptest.NewRecorder())
}

func TestAuthHandler_RejectedInputIsLoggedWithoutPassword(t *testing.T) {
	h, logs := newTestHandler(t)

	err := h.SignUp(newJSONContext(`{"email":"not-an-email","password":"hunter2"}`))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Contains(t, logs.String(), "Rejected invalid credentials")
	assert.Contains(t, logs.String(), "email: email")
	assert.NotContains(t, logs.String(), "hunter2")
}

func TestAuthHandler_MalformedBodyIsLogged(t *testing.T) {
	h, logs := newTestHandler(t)

	err := h.SignIn(newJSONContext(`{"email":`))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_INPUT", appErr.ErrorCode())
	assert.Contains(t, logs.String(), "Rejected malformed credentials body")
}
