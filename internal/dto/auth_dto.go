package dto

import (
	"time"

	"nvocc-platform/internal/service"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	FirstName   string   `json:"firstName" validate:"required"`
	LastName    string   `json:"lastName" validate:"required"`
	PhoneNumber string   `json:"phoneNumber" validate:"omitempty"`
	Roles       []string `json:"roles" validate:"omitempty,dive,required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginMFARequest struct {
	MFATicket string `json:"mfaTicket" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

type SwitchRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type PasswordStrengthRequest struct {
	Password string `json:"password" validate:"required"`
}

type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required"`
}

type UserContext struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	Roles       []string             `json:"roles"`
	ActiveRole  string               `json:"activeRole"`
	Permissions []string             `json:"permissions"`
	Menus       []service.MenuAccess `json:"menus"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LoginResponse struct {
	User        *UserContext `json:"user,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time   `json:"expiresAt,omitempty"`
	Session     *SessionInfo `json:"session,omitempty"`

	MFARequired     bool   `json:"mfaRequired,omitempty"`
	MFATicket       string `json:"mfaTicket,omitempty"`
	MFATicketExpiry int64  `json:"mfaTicketExpiresIn,omitempty"`
}

type SwitchRoleResponse struct {
	User        *UserContext `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

type RefreshResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type RoleInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IsActive    bool   `json:"isActive"`
}

type RolesResponse struct {
	Roles      []RoleInfo `json:"roles"`
	ActiveRole string     `json:"activeRole"`
}

type MenusResponse struct {
	Menus      []service.MenuAccess `json:"menus"`
	ActiveRole string               `json:"activeRole"`
}

type ProfileResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	PhoneNumber string               `json:"phoneNumber,omitempty"`
	Status      string               `json:"status"`
	LastLoginAt *time.Time           `json:"lastLoginAt,omitempty"`
	Roles       []RoleInfo           `json:"roles"`
	Permissions []string             `json:"permissions"`
	Menus       []service.MenuAccess `json:"menus"`
}

type CheckAuthResponse struct {
	User    *UserContext `json:"user"`
	Session *SessionInfo `json:"session"`
}

type MFAEnableResponse struct {
	OTPAuthURL string `json:"otpauthUrl"`
}

type ActivityLogEntry struct {
	ID        string     `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Action    string     `json:"action"`
	Entity    string     `json:"entity,omitempty"`
	EntityID  *string    `json:"entityId,omitempty"`
	Details   any        `json:"details,omitempty"`
	IPAddress *string    `json:"ipAddress,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func UserContextFromIdentity(identity *service.Identity) *UserContext {
	if identity == nil {
		return nil
	}
	return &UserContext{
		ID:          identity.UserID.String(),
		Email:       identity.Email,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Roles:       identity.Roles,
		ActiveRole:  identity.ActiveRole,
		Permissions: identity.Permissions,
		Menus:       identity.Menus,
	}
}

func SessionInfoFromIdentity(identity *service.Identity) *SessionInfo {
	if identity == nil || identity.SessionID == uuid.Nil {
		return nil
	}
	return &SessionInfo{
		ID:        identity.SessionID.String(),
		ExpiresAt: identity.SessionExpiresAt,
	}
}

func RoleInfosFromService(roles []service.RoleInfo) []RoleInfo {
	infos := make([]RoleInfo, 0, len(roles))
	for _, role := range roles {
		infos = append(infos, RoleInfo{
			Name:        role.Name,
			DisplayName: role.DisplayName,
			IsActive:    role.IsActive,
		})
	}
	return infos
}

func ProfileResponseFromService(profile *service.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          profile.UserID.String(),
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhoneNumber: profile.PhoneNumber,
		Status:      profile.Status,
		LastLoginAt: profile.LastLoginAt,
		Roles:       RoleInfosFromService(profile.Roles),
		Permissions: profile.Permissions,
		Menus:       profile.Menus,
	}
}
