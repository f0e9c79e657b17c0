package service

import "errors"

// All of these are expected, local failures returned to the caller as
// values; none is process-fatal. Database errors pass through untyped
// and surface as generic internal errors.
var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials conflates unknown email and wrong password
	// so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrPasswordExpired    = errors.New("password has expired and must be reset")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")

	ErrAccessTokenInvalid  = errors.New("invalid or expired access token")
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid, revoked or expired")
	// ErrInvalidSession: the token verified but no live session backs it;
	// this is how server-side logout beats a still-valid signature.
	ErrInvalidSession = errors.New("session has expired or is invalid")

	ErrRoleNotAssigned = errors.New("user does not have access to this role")

	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("user with this email already exists")
	ErrInvalidResetToken      = errors.New("invalid or expired reset token")

	ErrMFARequired      = errors.New("mfa verification required")
	ErrInvalidMFACode   = errors.New("invalid mfa code")
	ErrMFANotConfigured = errors.New("mfa not configured")
)
