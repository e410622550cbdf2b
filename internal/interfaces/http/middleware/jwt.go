package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// TokenValidator parses access tokens. *auth.JWTService satisfies it.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// AuthConfig wires the JWT middleware
type AuthConfig struct {
	Tokens    TokenValidator
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Authenticate requires a valid, unrevoked bearer access token
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortAuth(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		claims, err := verify(c, cfg, raw)
		if err != nil {
			code, msg := authFailure(err)
			abortAuth(c, code, msg)
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is sent and lets
// anonymous requests through. A bad token is treated as no token.
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := verify(c, cfg, raw); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole lets only the given roles through. Must run after Authenticate.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(c.GetString(UserRoleKey))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.Failure("FORBIDDEN", "You do not have permission to perform this action"))
	}
}

// AdminOnly is RequireRole(identity.RoleAdmin)
func AdminOnly() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// CurrentUserID returns the authenticated user, or uuid.Nil for anonymous
// callers
func CurrentUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsAdmin reports whether the caller holds the admin role
func IsAdmin(c *gin.Context) bool {
	return identity.Role(c.GetString(UserRoleKey)) == identity.RoleAdmin
}

// Claims returns the verified token claims, if any
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// BearerToken returns the raw bearer token of the request
func BearerToken(c *gin.Context) string {
	raw, _ := bearerToken(c)
	return raw
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	return raw, raw != ""
}

func verify(c *gin.Context, cfg AuthConfig, raw string) (*auth.Claims, error) {
	claims, err := cfg.Tokens.ValidateAccessToken(raw)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckClaims(c.Request.Context(), cfg.Blacklist, claims); err != nil {
		if errors.Is(err, auth.ErrTokenBlacklisted) {
			return nil, err
		}
		// the blacklist store being down must not lock every user out
		if cfg.Logger != nil {
			cfg.Logger.Error("token blacklist lookup failed",
				zap.String("user_id", claims.UserID), zap.Error(err))
		}
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserRoleKey, claims.Role)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

func authFailure(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "TOKEN_REVOKED", "Token has been revoked"
	default:
		return "TOKEN_INVALID", "Invalid token"
	}
}

func abortAuth(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Failure(code, message))
}
