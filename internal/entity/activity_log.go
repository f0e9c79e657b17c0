package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActionRegister       ActivityAction = "REGISTER"
	ActionLoginSuccess   ActivityAction = "LOGIN_SUCCESS"
	ActionLoginFailed    ActivityAction = "LOGIN_FAILED"
	ActionLogout         ActivityAction = "LOGOUT"
	ActionRoleSwitch     ActivityAction = "ROLE_SWITCH"
	ActionTokenRefresh   ActivityAction = "TOKEN_REFRESH"
	ActionPasswordChange ActivityAction = "PASSWORD_CHANGE"
	ActionPasswordReset  ActivityAction = "PASSWORD_RESET"
	ActionMFAFailed      ActivityAction = "MFA_FAILED"
)

// ActivityLog is append-only. UserID is nullable so failed logins for
// unknown emails can still be recorded.
type ActivityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	Action   ActivityAction `gorm:"type:varchar(50);not null;index"`
	Entity   string         `gorm:"type:varchar(50);index"`
	EntityID *string        `gorm:"type:varchar(64)"`

	Details datatypes.JSON

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
}
