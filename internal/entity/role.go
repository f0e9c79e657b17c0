package entity

import (
	"time"

	"github.com/google/uuid"
)

// Well-known role names seeded by the platform. Roles are plain rows, not
// an enum: deployments add their own.
const (
	RoleAdmin      = "ADMIN"
	RoleCustomer   = "CUSTOMER"
	RolePort       = "PORT"
	RoleDepot      = "DEPOT"
	RoleSales      = "SALES"
	RoleMasterPort = "MASTER_PORT"
	RoleHR         = "HR"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(100)"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`

	Permissions []Permission `gorm:"many2many:role_permissions"`
	RoleMenus   []RoleMenu

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRole is the user-to-role assignment edge. Assignments can be
// suspended (IsActive=false) without being deleted, and exactly one per
// user may be flagged IsDefault to pick the active role at login.
type UserRole struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_role"`
	RoleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role"`
	Role   Role      `gorm:"constraint:OnDelete:CASCADE"`

	IsActive  bool       `gorm:"default:true"`
	IsDefault bool       `gorm:"default:false"`
	GrantedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}
