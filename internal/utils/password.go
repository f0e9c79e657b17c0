package utils

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	DefaultBcryptCost = 12
)

var ErrWeakPassword = errors.New("password does not meet strength requirements")

// commonPasswords is a fixed deny-list; matched case-insensitively.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"123456":      {},
	"123456789":   {},
	"qwerty":      {},
	"abc123":      {},
	"password123": {},
	"admin":       {},
	"letmein":     {},
	"welcome":     {},
	"monkey":      {},
}

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

type PasswordStrength struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

type PasswordValidation struct {
	IsValid  bool             `json:"is_valid"`
	Errors   []string         `json:"errors,omitempty"`
	Strength PasswordStrength `json:"strength"`
}

// HashPassword enforces the strength rules before hashing. The cost must
// be high enough to resist offline brute force; zero picks the default.
func HashPassword(password string, cost int) (string, error) {
	if v := ValidatePasswordStrength(password); !v.IsValid {
		return "", ErrWeakPassword
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ComparePassword never returns an error: malformed hashes and mismatches
// both read as "credentials did not match" to the caller.
func ComparePassword(password string, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidatePasswordStrength(password string) PasswordValidation {
	var errs []string

	if password == "" {
		return PasswordValidation{IsValid: false, Errors: []string{"password is required"}}
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, "password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errs = append(errs, "password is too long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one number")
	}
	if !hasSymbol {
		errs = append(errs, "password must contain at least one special character")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		errs = append(errs, "password is too common, please choose a stronger password")
	}

	return PasswordValidation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Strength: CalculatePasswordStrength(password),
	}
}

// CalculatePasswordStrength is advisory only, used for UX hints; it never
// gates anything.
func CalculatePasswordStrength(password string) PasswordStrength {
	if password == "" {
		return PasswordStrength{Score: 0, Level: "weak"}
	}

	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}
	if len(password) >= 16 {
		score++
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if hasLower {
		score++
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	if hasLower && hasUpper && hasDigit {
		score++
	}
	if hasLower && hasUpper && hasDigit && hasSymbol {
		score++
	}

	level := "very-weak"
	switch {
	case score >= 7:
		level = "very-strong"
	case score >= 5:
		level = "strong"
	case score >= 3:
		level = "medium"
	case score >= 1:
		level = "weak"
	}
	return PasswordStrength{Score: score, Level: level}
}
