package service

import (
	"context"
	"time"

	"nvocc-platform/internal/utils"

	"github.com/google/uuid"
)

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	MFATicketTTL    time.Duration

	// PasswordExpiryDays forces a reset once a password is older than the
	// window; zero disables the check.
	PasswordExpiryDays int
	// MaxUserSessions caps live sessions per user; on login past the cap
	// the least recently active session is terminated. Zero disables.
	MaxUserSessions int

	BcryptCost int
	MFAIssuer  string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// TokenIssuer is the signing/verification surface; utils.TokenManager is
// the production implementation. Pure and side-effect free.
type TokenIssuer interface {
	IssueAccessToken(userID string, email string, activeRole string, roles []string) (string, time.Time, error)
	IssueRefreshToken(userID string) (string, time.Time, error)
	ParseAccessToken(token string) (*utils.AccessClaims, error)
	ParseRefreshToken(token string) (*utils.RefreshClaims, error)
}

type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, email string, token string) error
}

type MFAProvider interface {
	GenerateSecret() (string, error)
	QRCodeURL(email string, issuer string, secret string) (string, error)
	ValidateCode(secret string, code string) bool
}

// MFATicketIssuer mints the short-lived ticket handed back when login
// needs a second factor before any session exists.
type MFATicketIssuer interface {
	IssueTicket(userID uuid.UUID) (string, time.Duration, error)
	ParseTicket(ticket string) (uuid.UUID, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	return utils.HashPassword(password, h.Cost)
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return utils.ComparePassword(password, hash)
}
