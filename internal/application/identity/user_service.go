package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// OrderCounter reports how many orders reference a user
type OrderCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserService handles admin user management
type UserService struct {
	userRepo  identity.UserRepository
	orders    OrderCounter
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service. revokeTTL should be the
// refresh token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	orders OrderCounter,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		orders:    orders,
		blacklist: blacklist,
		events:    events,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, f UserListFilter) (shared.Paginated[UserResponse], error) {
	filter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			Search:   f.Search,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		}.Normalize(),
		Verified: f.Verified,
	}
	if f.Role != "" {
		role := identity.Role(f.Role)
		filter.Role = &role
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update applies an admin edit. Admins cannot change their own role.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req AdminUpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := user.UpdateProfile(*req.Name, user.Phone, user.Bio, user.Avatar); err != nil {
			return nil, err
		}
	}
	roleChanged := false
	if req.Role != nil && identity.Role(*req.Role) != user.Role {
		if actorID == id {
			return nil, shared.NewDomainError("CANNOT_CHANGE_OWN_ROLE", "You cannot change your own role")
		}
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
		roleChanged = true
	}
	if req.IsVerified != nil {
		user.SetVerified(*req.IsVerified)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	// tokens carry the role, so outstanding ones must be re-issued
	if roleChanged {
		s.revokeTokens(ctx, user.ID)
	}

	s.logger.Info("User updated by admin",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// SetVerification sets the verified flag
func (s *UserService) SetVerification(ctx context.Context, id uuid.UUID, verified bool) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.SetVerified(verified)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user who has never ordered
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.orders.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("USER_HAS_ORDERS", "Cannot delete a user with existing orders")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeTokens(ctx, id)

	s.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

func (s *UserService) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
