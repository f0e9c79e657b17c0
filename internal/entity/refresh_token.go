package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken lives independently of UserSession: it survives access
// token rotation but is revoked en masse on logout.
type RefreshToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Token     string `gorm:"type:text;uniqueIndex;not null"`
	IsRevoked bool   `gorm:"default:false"`
	ExpiresAt time.Time

	CreatedAt time.Time
}
