package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is one row per authenticated client instance. The row holds
// the access token currently bound to the device; rotation (refresh, role
// switch) replaces Token in place, so at most one access token is ever
// valid per session. A session dies either by explicit logout
// (IsActive=false) or by ExpiresAt lapsing; expired rows are not swept,
// they simply stop matching the gate's lookup.
type UserSession struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Token      string `gorm:"type:text;not null;index"`
	ActiveRole string `gorm:"type:varchar(50)"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	IsActive       bool `gorm:"default:true"`
	ExpiresAt      time.Time
	LastActivityAt time.Time

	CreatedAt time.Time
}
