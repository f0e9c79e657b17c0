package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken stores only the SHA-256 of the emailed token. Rows
// are one-shot: UsedAt is stamped on consumption.
type PasswordResetToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;index"`

	ExpiresAt time.Time
	UsedAt    *time.Time

	CreatedAt time.Time
}
