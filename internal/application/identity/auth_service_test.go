package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "password123"

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "marketplace-test",
		MaxRefreshCount:        10,
	})
}

type authFixture struct {
	svc       *AuthService
	repo      *MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	events    *recordingPublisher
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:      new(MockUserRepository),
		jwt:       newTestJWT(),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		events:    &recordingPublisher{},
	}
	f.svc = NewAuthService(f.repo, f.jwt, f.blacklist, f.events, DefaultAuthServiceConfig(), zap.NewNop())
	return f
}

func createTestUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Jane Buyer", "jane@example.com", testPassword)
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user and issues tokens", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := f.svc.Register(context.Background(), RegisterRequest{
			Name: "New User", Email: "New@Example.com", Password: testPassword,
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", result.User.Email)
		assert.Equal(t, "user", result.User.Role)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, identity.EventTypeUserRegistered, f.events.events[0].EventType())

		claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := f.svc.Register(context.Background(), RegisterRequest{
			Name: "Someone", Email: "taken@example.com", Password: testPassword,
		})

		assertCode(t, err, "EMAIL_TAKEN")
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Register(context.Background(), RegisterRequest{
			Name: "Someone", Email: "race@example.com", Password: testPassword,
		})

		assertCode(t, err, "EMAIL_TAKEN")
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.svc.Register(context.Background(), RegisterRequest{
			Name: "Someone", Email: "short@example.com", Password: "short",
		})

		assertCode(t, err, "INVALID_PASSWORD")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		user := createTestUser(t)
		f.repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
		f.repo.On("Update", mock.Anything, user).Return(nil)

		result, err := f.svc.Login(context.Background(), LoginRequest{Email: " JANE@example.com", Password: testPassword})

		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
		f.repo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: testPassword})
		assertCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("malformed email", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: testPassword})
		assertCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("wrong password records failure", func(t *testing.T) {
		f := newAuthFixture()
		user := createTestUser(t)
		f.repo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)
		f.repo.On("Update", mock.Anything, user).Return(nil)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrong-password"})

		assertCode(t, err, "INVALID_CREDENTIALS")
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("locks after max attempts", func(t *testing.T) {
		f := newAuthFixture()
		user := createTestUser(t)
		user.FailedAttempts = 4
		f.repo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)
		f.repo.On("Update", mock.Anything, user).Return(nil)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
		assertCode(t, err, "ACCOUNT_LOCKED")
		assert.True(t, user.IsLocked())

		// even the right password is refused while locked
		_, err = f.svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: testPassword})
		assertCode(t, err, "ACCOUNT_LOCKED")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture()
	user := createTestUser(t)
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: user.ID, Email: user.Email, Role: "user"})
	require.NoError(t, err)

	require.NoError(t, user.SetRole(identity.RoleAdmin))
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	tokens, err := f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)

	claims, err := f.jwt.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role, "role is re-read from the user")

	// the used refresh token is rotated out
	_, err = f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	assertCode(t, err, "TOKEN_REVOKED")
}

func TestAuthService_RefreshToken_Errors(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "garbage"})
		assertCode(t, err, "TOKEN_INVALID")
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthFixture()
		id := uuid.New()
		pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: id})
		require.NoError(t, err)
		f.repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err = f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: pair.RefreshToken})
		assertCode(t, err, "TOKEN_INVALID")
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: userID})
	require.NoError(t, err)
	access, err := f.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	err = f.svc.Logout(context.Background(), LogoutInput{
		UserID:       userID,
		AccessJTI:    access.ID,
		AccessTTL:    access.GetRemainingTTL(),
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)

	ctx := context.Background()
	revoked, _ := f.blacklist.IsRevoked(ctx, access.ID)
	assert.True(t, revoked)
	revoked, _ = f.blacklist.IsRevoked(ctx, refresh.ID)
	assert.True(t, revoked)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture()
	user := createTestUser(t)
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.repo.On("Update", mock.Anything, user).Return(nil)

	bio := "Indie developer"
	resp, err := f.svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Bio: &bio})

	require.NoError(t, err)
	assert.Equal(t, "Jane Buyer", resp.Name, "untouched fields keep their value")
	assert.Equal(t, bio, resp.Bio)
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("revokes earlier tokens", func(t *testing.T) {
		f := newAuthFixture()
		user := createTestUser(t)
		f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		f.repo.On("Update", mock.Anything, user).Return(nil)

		err := f.svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
			CurrentPassword: testPassword, NewPassword: "brand-new-pass",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("brand-new-pass"))

		revoked, err := f.blacklist.IsUserRevoked(context.Background(), user.ID.String(), time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		user := createTestUser(t)
		f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
			CurrentPassword: "nope-nope", NewPassword: "brand-new-pass",
		})
		assertCode(t, err, "INVALID_PASSWORD")
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
