package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/config"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/dimitrije/taskhive-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*testutil.MockUserService, *testutil.MockTokenService, *AuthHandler) {
	t.Helper()
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	cfg := &config.Config{FrontendCallbackURL: "http://localhost:3000/auth/callback"}
	handler := NewAuthHandler(cfg, mockUserService, mockTokenService, jwtSvc)
	return mockUserService, mockTokenService, handler
}

func authApp(handler *AuthHandler) http.Handler {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/refresh", handler.RefreshToken)
	app.Get("/auth/:provider/consent", handler.GetConsentURL)
	return app
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mockUserService, mockTokenService, handler := setupAuthTest(t)

	user := &models.User{
		ID:         uuid.New(),
		Email:      "new@example.com",
		FullName:   "New User",
		GlobalRole: models.GlobalRoleUser,
	}

	mockUserService.On("Register", mock.Anything, "new@example.com", "New User", "hunter2hunter2").Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	app := authApp(handler)

	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "hunter2hunter2",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)

	mockUserService.AssertExpectations(t)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mockUserService, _, handler := setupAuthTest(t)

	mockUserService.On("Register", mock.Anything, "taken@example.com", "Someone", "hunter2hunter2").
		Return(nil, services.ErrEmailTaken)

	app := authApp(handler)

	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    "taken@example.com",
		FullName: "Someone",
		Password: "hunter2hunter2",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_TAKEN")

	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	_, _, handler := setupAuthTest(t)

	app := authApp(handler)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "", Password: ""})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockUserService, mockTokenService, handler := setupAuthTest(t)

	user := &models.User{
		ID:         uuid.New(),
		Email:      "test@example.com",
		GlobalRole: models.GlobalRoleUser,
	}

	mockUserService.On("Login", mock.Anything, "test@example.com", "hunter2hunter2").Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	app := authApp(handler)

	body, _ := json.Marshal(dto.LoginRequest{Email: "test@example.com", Password: "hunter2hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)

	mockUserService.AssertExpectations(t)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockUserService, _, handler := setupAuthTest(t)

	mockUserService.On("Login", mock.Anything, "test@example.com", "wrong-password").
		Return(nil, services.ErrInvalidCredentials)

	app := authApp(handler)

	body, _ := json.Marshal(dto.LoginRequest{Email: "test@example.com", Password: "wrong-password"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	_, _, handler := setupAuthTest(t)

	app := authApp(handler)

	body, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_GetConsentURL_UnsupportedProvider(t *testing.T) {
	_, _, handler := setupAuthTest(t)

	app := authApp(handler)

	req := httptest.NewRequest(http.MethodGet, "/auth/gitlab/consent", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported provider")
}
