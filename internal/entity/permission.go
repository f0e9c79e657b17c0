package entity

import (
	"time"

	"github.com/google/uuid"
)

// Permission is an atomic named capability, e.g. "bookings.create".
// Module groups capabilities for administration screens; Category is the
// coarse verb class (read/write/manage).
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(100)"`
	Module      string    `gorm:"type:varchar(50);index"`
	Category    string    `gorm:"type:varchar(30)"`
	IsActive    bool      `gorm:"default:true"`

	CreatedAt time.Time
}
