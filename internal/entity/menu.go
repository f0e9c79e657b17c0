package entity

import (
	"time"

	"github.com/google/uuid"
)

type Menu struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string     `gorm:"type:varchar(100);not null"`
	Path     string     `gorm:"type:varchar(255)"`
	Icon     string     `gorm:"type:varchar(50)"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`

	SortOrder int  `gorm:"default:0"`
	IsActive  bool `gorm:"default:true"`

	CreatedAt time.Time
}

// RoleMenu binds a menu node to a role with four independent capability
// flags. A user's effective flags for a node are the OR across all of
// their active roles.
type RoleMenu struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoleID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_role_menu"`
	MenuID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_menu"`
	Menu   Menu      `gorm:"constraint:OnDelete:CASCADE"`

	CanView   bool `gorm:"default:false"`
	CanCreate bool `gorm:"default:false"`
	CanEdit   bool `gorm:"default:false"`
	CanDelete bool `gorm:"default:false"`
}
