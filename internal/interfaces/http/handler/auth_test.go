package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func authRouter(svc *mockAuthService, mw ...gin.HandlerFunc) *gin.Engine {
	h := NewAuthHandler(NewBaseHandler(false), svc)
	r := newEngine(mw...)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	r.PUT("/auth/me", h.UpdateMe)
	r.PUT("/auth/password", h.ChangePassword)
	return r
}

func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Set(middleware.UserIDKey, claims.UserID)
		c.Set(middleware.UserRoleKey, claims.Role)
		c.Next()
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockAuthService)
		req := identity.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "hopper1906"}
		svc.On("Register", mock.Anything, req).Return(&identity.AuthResult{
			User:   identity.UserResponse{ID: uuid.New(), Email: req.Email, Role: "user"},
			Tokens: identity.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"},
		}, nil)

		w := perform(authRouter(svc), http.MethodPost, "/auth/register", req)
		assert.Equal(t, http.StatusCreated, w.Code)
		data := dataMap(t, decode(t, w))
		assert.Equal(t, "grace@example.com", data["user"].(map[string]any)["email"])
		assert.Equal(t, "a", data["tokens"].(map[string]any)["access_token"])
	})

	t.Run("short password", func(t *testing.T) {
		svc := new(mockAuthService)
		w := perform(authRouter(svc), http.MethodPost, "/auth/register",
			map[string]any{"name": "Grace", "email": "grace@example.com", "password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password", decode(t, w).Errors[0].Field)
		svc.AssertNumberOfCalls(t, "Register", 0)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, identity.LoginRequest{Email: "grace@example.com", Password: "wrong"}).
		Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"))

	w := perform(authRouter(svc), http.MethodPost, "/auth/login",
		map[string]any{"email": "grace@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("RefreshToken", mock.Anything, identity.RefreshTokenRequest{RefreshToken: "r1"}).
		Return(&identity.TokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil)

	w := perform(authRouter(svc), http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "r1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r2", dataMap(t, decode(t, w))["refresh_token"])
}

func TestAuthHandler_Logout(t *testing.T) {
	userID := uuid.New()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
		UserID: userID.String(),
		Role:   "user",
	}
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.UserID == userID && in.AccessJTI == "jti-1" && in.RefreshToken == "r1" &&
			in.AccessTTL > 9*time.Minute && in.AccessTTL <= 10*time.Minute
	})).Return(nil)

	w := perform(authRouter(svc, withClaims(claims)), http.MethodPost, "/auth/logout", map[string]any{"refresh_token": "r1"})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	userID := uuid.New()

	t.Run("get", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("GetCurrentUser", mock.Anything, userID).Return(&identity.UserResponse{ID: userID, Name: "Grace"}, nil)

		w := perform(authRouter(svc, asUser(userID, customer)), http.MethodGet, "/auth/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Grace", dataMap(t, decode(t, w))["name"])
	})

	t.Run("update", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("UpdateProfile", mock.Anything, userID, mock.MatchedBy(func(req identity.UpdateProfileRequest) bool {
			return req.Bio != nil && *req.Bio == "Compilers" && req.Name == nil
		})).Return(&identity.UserResponse{ID: userID, Bio: "Compilers"}, nil)

		w := perform(authRouter(svc, asUser(userID, customer)), http.MethodPut, "/auth/me", map[string]any{"bio": "Compilers"})
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("change password", func(t *testing.T) {
		svc := new(mockAuthService)
		req := identity.ChangePasswordRequest{CurrentPassword: "hopper1906", NewPassword: "cobol1959!"}
		svc.On("ChangePassword", mock.Anything, userID, req).Return(nil)

		w := perform(authRouter(svc, asUser(userID, customer)), http.MethodPut, "/auth/password", req)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
