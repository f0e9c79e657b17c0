package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the platform reads from the environment.
// Load is called once at startup; nothing re-reads env vars afterwards.
type Config struct {
	DatabaseURL string
	HTTPAddr    string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTIssuer        string
	JWTAudience      string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	ResetTokenTTL    time.Duration
	MFATicketTTL     time.Duration

	PasswordExpiryDays int
	MaxUserSessions    int
	BcryptCost         int

	CookieDomain  string
	SecureCookies bool

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string
	MFAIssuer    string
	MFAJWTSecret string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPAddr:           envString("HTTP_ADDR", ":8080"),
		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTIssuer:          envString("JWT_ISSUER", "nvocc-platform"),
		JWTAudience:        envString("JWT_AUDIENCE", "nvocc-client"),
		AccessTokenTTL:     envDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    envDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:      envDuration("RESET_TOKEN_TTL", 30*time.Minute),
		MFATicketTTL:       envDuration("MFA_TICKET_TTL", 5*time.Minute),
		PasswordExpiryDays: envInt("PASSWORD_EXPIRY_DAYS", 90),
		MaxUserSessions:    envInt("MAX_USER_SESSIONS", 4),
		BcryptCost:         envInt("BCRYPT_COST", 12),
		CookieDomain:       os.Getenv("COOKIE_DOMAIN"),
		SecureCookies:      os.Getenv("COOKIE_SECURE") != "false",
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		EmailFrom:          envString("EMAIL_FROM", "no-reply@nvocc-platform.local"),
		AppBaseURL:         envString("APP_BASE_URL", "https://app.nvocc-platform.local"),
		MFAIssuer:          envString("MFA_ISSUER", "NVOCC Platform"),
		MFAJWTSecret:       os.Getenv("MFA_JWT_SECRET"),
	}
	if cfg.MFAJWTSecret == "" {
		cfg.MFAJWTSecret = cfg.JWTAccessSecret
	}

	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return value
}
