package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authapi/config"
	deliverycontext "authapi/internal/delivery/context"
	"authapi/internal/delivery/http/response"
	"authapi/internal/delivery/http/router"
	"authapi/internal/delivery/http/router/handler"
	"authapi/internal/domain/entity"
	domainerrors "authapi/internal/domain/errors"
	mockUsecase "authapi/internal/mocks/usecase"
	"authapi/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serverFixtures struct {
	echo   *echo.Echo
	authUC *mockUsecase.MockAuthUsecase
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.Port = 3333
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.Metrics = &config.MetricsConfig{Enabled: true, Path: "/metrics"}

	return cfg
}

func createTestServer(t *testing.T) serverFixtures {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authUC := mockUsecase.NewMockAuthUsecase(t)
	cfg := newTestConfig()

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
		Registry:    prometheus.NewRegistry(),
		Config:      cfg,
	})

	return serverFixtures{echo: e, authUC: authUC}
}

func (f serverFixtures) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	return rec
}

type userEnvelope struct {
	response.Response
	Data *handler.UserResponse `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) userEnvelope {
	t.Helper()

	var env userEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestSignUp_Created(t *testing.T) {
	fx := createTestServer(t)

	user := &entity.PublicUser{ID: uuid.New(), Email: "a@x.com", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	fx.authUC.EXPECT().
		Register(mock.Anything, &usecase.CredentialsInput{Email: "a@x.com", Password: "pw1"}).
		Return(&usecase.RegisterOutput{User: user}, nil)

	rec := fx.do(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"pw1","role":"admin"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, user.ID, env.Data.ID)
	assert.Equal(t, user.Email, env.Data.Email)
	assert.True(t, user.CreatedAt.Equal(env.Data.CreatedAt))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignUp_Conflict(t *testing.T) {
	fx := createTestServer(t)

	fx.authUC.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.CredentialsInput")).
		Return(nil, domainerrors.ErrEmailAlreadyExists.WrapMessage("user registration failed"))

	rec := fx.do(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"pw2"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already exists", env.Message)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", env.Error.Code)
}

func TestSignIn_OK(t *testing.T) {
	fx := createTestServer(t)

	user := &entity.PublicUser{ID: uuid.New(), Email: "a@x.com", CreatedAt: time.Now().UTC()}
	fx.authUC.EXPECT().
		Login(mock.Anything, &usecase.CredentialsInput{Email: "a@x.com", Password: "pw1"}).
		Return(&usecase.LoginOutput{User: user}, nil)

	rec := fx.do(http.MethodPost, "/auth/signin", `{"email":"a@x.com","password":"pw1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, user.ID, env.Data.ID)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	fx := createTestServer(t)

	fx.authUC.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.CredentialsInput")).
		Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

	rec := fx.do(http.MethodPost, "/auth/signin", `{"email":"b@x.com","password":"pw1"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid credentials", env.Message)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	assert.Empty(t, env.Error.Details)
}

func TestAuthRoutes_ValidationFailed(t *testing.T) {
	fx := createTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "missing email", path: "/auth/signup", body: `{"password":"pw1"}`},
		{name: "malformed email", path: "/auth/signup", body: `{"email":"not-an-email","password":"pw1"}`},
		{name: "empty password", path: "/auth/signin", body: `{"email":"a@x.com","password":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(http.MethodPost, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
			assert.NotEmpty(t, env.Error.Details)
		})
	}
}

func TestAuthRoutes_InvalidJSON(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(http.MethodPost, "/auth/signin", `{"email":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestAuthRoutes_BodyTooLarge(t *testing.T) {
	fx := createTestServer(t)

	body := `{"email":"a@x.com","password":"` + strings.Repeat("x", 2048) + `"}`
	rec := fx.do(http.MethodPost, "/auth/signup", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAuthRoutes_UnclassifiedErrorHidesDetails(t *testing.T) {
	fx := createTestServer(t)

	fx.authUC.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.CredentialsInput")).
		Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	rec := fx.do(http.MethodPost, "/auth/signin", `{"email":"a@x.com","password":"pw1"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestRequestID(t *testing.T) {
	fx := createTestServer(t)

	t.Run("generated when absent", func(t *testing.T) {
		rec := fx.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.NoError(t, err)
	})

	t.Run("echoed when provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "req-123")
		rec := httptest.NewRecorder()
		fx.echo.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
	})
}

func TestHealthAndMetrics(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = fx.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRouteDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := newTestConfig()
	cfg.Metrics.Enabled = false

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: mockUsecase.NewMockAuthUsecase(t), Logger: logger}),
		Registry:    prometheus.NewRegistry(),
		Config:      cfg,
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
