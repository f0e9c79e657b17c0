package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures and lapsed expiry alike; callers
// must not be able to tell the two apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager signs and verifies the two token kinds with independent
// secrets. Access tokens carry the full role context so per-request
// authorization needs no database join; refresh tokens carry only the
// user id to limit blast radius if one leaks.
type TokenManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AccessClaims struct {
	UserID     string   `json:"userId"`
	Email      string   `json:"email"`
	ActiveRole string   `json:"activeRole"`
	Roles      []string `json:"roles"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func (m TokenManager) accessTTL() time.Duration {
	if m.AccessTTL > 0 {
		return m.AccessTTL
	}
	return 15 * time.Minute
}

func (m TokenManager) refreshTTL() time.Duration {
	if m.RefreshTTL > 0 {
		return m.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

func (m TokenManager) IssueAccessToken(userID string, email string, activeRole string, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.accessTTL())
	claims := AccessClaims{
		UserID:     userID,
		Email:      email,
		ActiveRole: activeRole,
		Roles:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m TokenManager) IssueRefreshToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.refreshTTL())
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m TokenManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.AccessSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m TokenManager) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.RefreshSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*RefreshClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
