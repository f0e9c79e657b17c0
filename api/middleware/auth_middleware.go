package middleware

import (
	"errors"
	"net/http"
	"strings"

	"nvocc-platform/internal/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware is the authentication gate. Beyond verifying the token
// signature it re-validates the backing session and user status on every
// request, so a logout or role switch is authoritative immediately.
type AuthMiddleware struct {
	Auth *service.AuthService
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Auth == nil {
			return authError(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return authError(http.StatusUnauthorized, "MISSING_TOKEN", "access token is required")
		}

		identity, session, err := m.Auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAccessTokenInvalid):
				return authError(http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
			case errors.Is(err, service.ErrAccountNotActive):
				return authError(http.StatusUnauthorized, "ACCOUNT_INACTIVE", "user account is not active")
			case errors.Is(err, service.ErrInvalidSession):
				return authError(http.StatusUnauthorized, "INVALID_SESSION", "session has expired or is invalid")
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
		}

		SetAuthContext(c, identity, session)
		return next(c)
	}
}

func authError(status int, code string, message string) error {
	return echo.NewHTTPError(status, echo.Map{
		"message": message,
		"code":    code,
	})
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
