package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusPending   UserStatus = "PENDING"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`

	FirstName   string `gorm:"type:varchar(100)"`
	LastName    string `gorm:"type:varchar(100)"`
	PhoneNumber string `gorm:"type:varchar(30)"`

	Status UserStatus `gorm:"type:varchar(20);default:'ACTIVE';not null"`

	// Carried for callers that partition data per tenant; this core does
	// not enforce isolation on it.
	TenantID *uuid.UUID `gorm:"type:uuid;index"`

	LastLoginAt       *time.Time
	EmailVerifiedAt   *time.Time
	PasswordChangedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	UserRoles []UserRole
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
