package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// RegisterRequest creates a customer account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string // optional
}

// UpdateProfileRequest updates the caller's own profile. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone  *string `json:"phone" binding:"omitempty,max=50"`
	Bio    *string `json:"bio" binding:"omitempty,max=1000"`
	Avatar *string `json:"avatar" binding:"omitempty,max=500"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter is the admin user list query
type UserListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=user admin"`
	Verified *bool  `form:"verified"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdminUpdateUserRequest is an admin edit of a user
type AdminUpdateUserRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Role       *string `json:"role" binding:"omitempty,oneof=user admin"`
	IsVerified *bool   `json:"is_verified"`
}

// SetVerificationRequest toggles the verified flag
type SetVerificationRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// UserResponse is the public view of a user. The password hash never
// leaves the domain.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsVerified  bool       `json:"is_verified"`
	Avatar      string     `json:"avatar,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		IsVerified:  u.IsVerified,
		Avatar:      u.Avatar,
		Phone:       u.Phone,
		Bio:         u.Bio,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// TokenResponse carries a token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

func toTokenResponse(p *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}

// AuthResult is returned by register and login
type AuthResult struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
