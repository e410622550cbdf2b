package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// AuthService is the account API the handler drives
type AuthService interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.AuthResult, error)
	Login(ctx context.Context, req identity.LoginRequest) (*identity.AuthResult, error)
	RefreshToken(ctx context.Context, req identity.RefreshTokenRequest) (*identity.TokenResponse, error)
	Logout(ctx context.Context, input identity.LogoutInput) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identity.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req identity.UpdateProfileRequest) (*identity.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req identity.ChangePasswordRequest) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	auth AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, auth AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, auth: auth}
}

// LogoutRequest optionally names the refresh token to revoke as well
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary      Register a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Account details"
// @Success      201 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Registration successful", result)
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Login successful", result)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[identity.TokenResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tokens, err := h.auth.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout godoc
// @Summary      Revoke the current access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke too"
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	input := identity.LogoutInput{
		UserID:       middleware.CurrentUserID(c),
		RefreshToken: req.RefreshToken,
	}
	if claims, ok := middleware.Claims(c); ok {
		input.AccessJTI = claims.ID
		input.AccessTTL = claims.GetRemainingTTL()
	}
	if err := h.auth.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out", nil)
}

// Me godoc
// @Summary      Get the current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetCurrentUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe godoc
// @Summary      Update the current user's profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req identity.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Profile updated", user)
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Description  Every token issued before the change stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ChangePasswordRequest true "Passwords"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identity.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Password changed, please log in again", nil)
}
