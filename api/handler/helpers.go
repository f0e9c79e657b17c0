package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"nvocc-platform/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeError(c echo.Context, status int, code string, err error) error {
	return c.JSON(status, echo.Map{
		"message": err.Error(),
		"code":    code,
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses
// and stable machine codes. Anything unmapped is a database or internal
// failure: fatal to the request, generic to the caller.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, "INVALID_INPUT", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err)
	case errors.Is(err, service.ErrAccountNotActive):
		return writeError(c, http.StatusUnauthorized, "ACCOUNT_INACTIVE", err)
	case errors.Is(err, service.ErrPasswordExpired):
		return writeError(c, http.StatusUnauthorized, "PASSWORD_EXPIRED", err)
	case errors.Is(err, service.ErrWeakPassword):
		return writeError(c, http.StatusBadRequest, "WEAK_PASSWORD", err)
	case errors.Is(err, service.ErrAccessTokenInvalid):
		return writeError(c, http.StatusUnauthorized, "INVALID_TOKEN", err)
	case errors.Is(err, service.ErrRefreshTokenInvalid):
		return writeError(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", err)
	case errors.Is(err, service.ErrInvalidSession):
		return writeError(c, http.StatusUnauthorized, "INVALID_SESSION", err)
	case errors.Is(err, service.ErrRoleNotAssigned):
		return writeError(c, http.StatusForbidden, "ROLE_NOT_ASSIGNED", err)
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, http.StatusNotFound, "USER_NOT_FOUND", err)
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return writeError(c, http.StatusConflict, "EMAIL_ALREADY_REGISTERED", err)
	case errors.Is(err, service.ErrInvalidResetToken):
		return writeError(c, http.StatusBadRequest, "INVALID_RESET_TOKEN", err)
	case errors.Is(err, service.ErrMFARequired):
		return writeError(c, http.StatusUnauthorized, "MFA_REQUIRED", err)
	case errors.Is(err, service.ErrInvalidMFACode):
		return writeError(c, http.StatusUnauthorized, "INVALID_MFA_CODE", err)
	case errors.Is(err, service.ErrMFANotConfigured):
		return writeError(c, http.StatusBadRequest, "MFA_NOT_CONFIGURED", err)
	default:
		return writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors.New("internal error"))
	}
}

func clientMeta(c echo.Context) service.ClientMeta {
	return service.ClientMeta{
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	}
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
