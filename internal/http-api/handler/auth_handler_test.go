package handler

import (
	"net/http"
	"testing"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLogin_Success(t *testing.T) {
	authService := new(MockAuthService)
	r, api := setupRouter()
	NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

	authService.On("Login", mock.Anything, "cook@example.com", "s3cret-pass").Return("signed.jwt", nil)

	w := perform(r, http.MethodPost, "/api/auth/token/login/", dto.LoginRequest{
		Email:    "cook@example.com",
		Password: "s3cret-pass",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed.jwt", decode(t, w)["auth_token"])
	authService.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authService := new(MockAuthService)
	r, api := setupRouter()
	NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

	authService.On("Login", mock.Anything, "cook@example.com", "wrong").Return("", service.ErrInvalidCredentials)

	w := perform(r, http.MethodPost, "/api/auth/token/login/", dto.LoginRequest{Email: "cook@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), decode(t, w)["error"])
}

func TestLogin_MissingFields(t *testing.T) {
	authService := new(MockAuthService)
	r, api := setupRouter()
	NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

	w := perform(r, http.MethodPost, "/api/auth/token/login/", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	authService.AssertNotCalled(t, "Login")
}

func TestLogout(t *testing.T) {
	authService := new(MockAuthService)
	r, api := setupRouter(withUser(3, models.RoleUser))
	NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

	authService.On("Logout", mock.Anything, mock.MatchedBy(func(c *service.Claims) bool {
		return c.UserID == 3
	})).Return(nil)

	w := perform(r, http.MethodPost, "/api/auth/token/logout/", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	authService.AssertExpectations(t)
}

func TestLogout_Anonymous(t *testing.T) {
	r, api := setupRouter()
	NewAuthHandler(new(MockAuthService)).RegisterRoutes(api.Group("/auth"))

	w := perform(r, http.MethodPost, "/api/auth/token/logout/", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
