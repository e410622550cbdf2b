package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Name              string        `gorm:"type:varchar(100);not null"`
	Email             string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash      string        `gorm:"type:varchar(255);not null"`
	Role              identity.Role `gorm:"type:varchar(20);not null;default:'user';index"`
	IsVerified        bool          `gorm:"not null;default:false"`
	Avatar            string        `gorm:"type:varchar(500)"`
	Phone             string        `gorm:"type:varchar(50)"`
	Bio               string        `gorm:"type:text"`
	LastLoginAt       *time.Time
	FailedAttempts    int `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		IsVerified:        m.IsVerified,
		Avatar:            m.Avatar,
		Phone:             m.Phone,
		Bio:               m.Bio,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.IsVerified = u.IsVerified
	m.Avatar = u.Avatar
	m.Phone = u.Phone
	m.Bio = u.Bio
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
