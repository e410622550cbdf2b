package identity

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type name for users
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserRegistered  = "UserRegistered"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserRegisteredEvent is published when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		Name:            u.Name,
	}
}

// UserRoleChangedEvent is published when an admin changes a user's role
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	OldRole Role      `json:"old_role"`
	NewRole Role      `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(u *User, old Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		OldRole:         old,
		NewRole:         u.Role,
	}
}
