package service

import (
	"time"

	"github.com/google/uuid"
)

// ClientMeta travels with every operation for the audit trail.
type ClientMeta struct {
	IPAddress *string
	UserAgent *string
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Roles       []string
	GrantedBy   *uuid.UUID
}

type LoginInput struct {
	Email    string
	Password string
	Meta     ClientMeta
}

type LoginMFAInput struct {
	Ticket string
	Code   string
	Meta   ClientMeta
}

// Identity is the resolved per-request context attached by the gate:
// who the user is, every role they hold, the one currently active, and
// the merged permission and menu sets for those roles.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	Roles       []string
	ActiveRole  string
	Permissions []string
	Menus       []MenuAccess

	SessionID        uuid.UUID
	SessionExpiresAt time.Time
}

func (id *Identity) HasRole(name string) bool {
	for _, r := range id.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (id *Identity) HasPermission(name string) bool {
	for _, p := range id.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

type LoginResult struct {
	Identity *Identity

	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time

	MFARequired     bool
	MFATicket       string
	MFATicketExpiry int64
}

type SwitchRoleResult struct {
	Identity        *Identity
	AccessToken     string
	AccessExpiresAt time.Time
}

type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
}

type RoleInfo struct {
	Name        string
	DisplayName string
	IsActive    bool
}

type Profile struct {
	UserID      uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Status      string
	LastLoginAt *time.Time
	Roles       []RoleInfo
	Permissions []string
	Menus       []MenuAccess
}
