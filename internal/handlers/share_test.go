package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/middleware"
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

func setupShareTest(t *testing.T) (*testutil.MockShareService, *ShareHandler, *services.JWTService) {
	t.Helper()
	mockShareService := new(testutil.MockShareService)
	handler := NewShareHandler(mockShareService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockShareService, handler, jwtSvc
}

func shareApp(jwtSvc *services.JWTService, handler *ShareHandler) http.Handler {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/tasks/:taskId/shares", handler.ShareTask)
	app.Delete("/tasks/:taskId/shares/:teamId", handler.Unshare)
	return app
}

func TestShareHandler_ShareTask_Success(t *testing.T) {
	mockShareService, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	taskID := uuid.New()
	teamID := uuid.New()
	share := &models.SharedTask{
		ID:          uuid.New(),
		TaskID:      taskID,
		TeamID:      teamID,
		Permissions: "edit",
		SharedBy:    userID,
	}

	mockShareService.On("ShareWithTeam", mock.Anything, userID, taskID, teamID, "edit").Return(share, nil)

	app := shareApp(jwtSvc, handler)

	body, _ := json.Marshal(dto.ShareTaskRequest{TeamID: teamID, Permissions: "edit"})
	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/shares", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response models.SharedTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "edit", response.Permissions)

	mockShareService.AssertExpectations(t)
}

func TestShareHandler_ShareTask_NotCreator(t *testing.T) {
	mockShareService, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	taskID := uuid.New()
	teamID := uuid.New()

	mockShareService.On("ShareWithTeam", mock.Anything, userID, taskID, teamID, "").
		Return(nil, services.ErrNotTaskCreator)

	app := shareApp(jwtSvc, handler)

	body, _ := json.Marshal(dto.ShareTaskRequest{TeamID: teamID})
	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/shares", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	mockShareService.AssertExpectations(t)
}

func TestShareHandler_ShareTask_MissingTeam(t *testing.T) {
	_, handler, jwtSvc := setupShareTest(t)

	app := shareApp(jwtSvc, handler)

	body, _ := json.Marshal(dto.ShareTaskRequest{})
	token := generateTestToken(t, jwtSvc, uuid.New(), "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/tasks/"+uuid.New().String()+"/shares", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareHandler_Unshare_NotShared(t *testing.T) {
	mockShareService, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	taskID := uuid.New()
	teamID := uuid.New()

	mockShareService.On("Unshare", mock.Anything, userID, taskID, teamID).
		Return(services.ErrShareNotFound)

	app := shareApp(jwtSvc, handler)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+taskID.String()+"/shares/"+teamID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockShareService.AssertExpectations(t)
}
