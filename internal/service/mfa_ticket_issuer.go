package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidMFATicket = errors.New("invalid mfa ticket")

// MFATicketIssuerJWT signs the interim ticket returned by Login when a
// second factor is pending. The ticket proves only that the password
// check passed; it grants no session.
type MFATicketIssuerJWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type mfaTicketClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func (m MFATicketIssuerJWT) IssueTicket(userID uuid.UUID) (string, time.Duration, error) {
	ttl := m.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now()
	claims := mfaTicketClaims{
		UserID: userID.String(),
		Type:   "mfa",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m MFATicketIssuerJWT) ParseTicket(ticket string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(ticket, &mfaTicketClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidMFATicket
		}
		return m.Secret, nil
	})
	if err != nil {
		return uuid.Nil, errInvalidMFATicket
	}
	claims, ok := parsed.Claims.(*mfaTicketClaims)
	if !ok || !parsed.Valid || claims.Type != "mfa" {
		return uuid.Nil, errInvalidMFATicket
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errInvalidMFATicket
	}
	return id, nil
}
