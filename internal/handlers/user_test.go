package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/taskhub-api/internal/middleware"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/dimitrije/taskhub-api/pkg/dto"
	"github.com/dimitrije/taskhub-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, email, name string) string {
	t.Helper()
	token, err := jwtSvc.GenerateAccessToken(userID, email, name)
	require.NoError(t, err)
	return token
}

func setupUserTest(t *testing.T) (*testutil.MockUserService, *UserHandler, *services.JWTService) {
	t.Helper()
	mockUserService := new(testutil.MockUserService)
	handler := NewUserHandler(mockUserService)
	return mockUserService, handler, newTestJWTService()
}

func TestUserHandler_EnsureMe_Success(t *testing.T) {
	mockUserService, handler, jwtSvc := setupUserTest(t)

	userID := uuid.New()
	user := &models.User{ID: userID, Email: "test@example.com", Name: "Test User"}

	mockUserService.On("FindOrCreate", mock.Anything, userID, "test@example.com", "Test User").Return(user, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/users/me", handler.EnsureMe)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com", "Test User")
	req := httptest.NewRequest(http.MethodPost, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.UserResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, userID, response.ID)
	assert.Equal(t, "test@example.com", response.Email)

	mockUserService.AssertExpectations(t)
}

func TestUserHandler_EnsureMe_NameFallsBackToEmail(t *testing.T) {
	mockUserService, handler, jwtSvc := setupUserTest(t)

	userID := uuid.New()
	user := &models.User{ID: userID, Email: "test@example.com", Name: "test@example.com"}

	mockUserService.On("FindOrCreate", mock.Anything, userID, "test@example.com", "test@example.com").Return(user, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/users/me", handler.EnsureMe)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com", "")
	req := httptest.NewRequest(http.MethodPost, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockUserService.AssertExpectations(t)
}

func TestUserHandler_GetMe_NotFound(t *testing.T) {
	mockUserService, handler, jwtSvc := setupUserTest(t)

	userID := uuid.New()
	mockUserService.On("GetByID", mock.Anything, userID).Return(nil, assert.AnError)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/users/me", handler.GetMe)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com", "Test")
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockUserService.AssertExpectations(t)
}

func TestUserHandler_UpdateMe_EmptyName(t *testing.T) {
	_, handler, jwtSvc := setupUserTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/users/me", handler.UpdateMe)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com", "Test")
	client := testutil.NewHTTPTestClient(t, app)
	rec := client.PATCH("/users/me", dto.UpdateUserRequest{Name: ""}, map[string]string{
		"Authorization": "Bearer " + token,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}
