package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole passes when the identity holds any of the given roles.
// The 403 payload carries required-vs-held sets for diagnostics.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return authError(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, role := range roles {
				if identity.HasRole(role) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, echo.Map{
				"message":       "insufficient permissions",
				"code":          "INSUFFICIENT_PERMISSIONS",
				"requiredRoles": roles,
				"userRoles":     identity.Roles,
			})
		}
	}
}

// RequireActiveRole checks the session's currently active role, not the
// whole assignment set: holding a role is not enough, the user must have
// switched into it.
func RequireActiveRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return authError(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
			}
			for _, role := range roles {
				if identity.ActiveRole == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, echo.Map{
				"message":      "active role does not have access to this resource",
				"code":         "ROLE_ACCESS_DENIED",
				"activeRole":   identity.ActiveRole,
				"allowedRoles": roles,
			})
		}
	}
}

func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return authError(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
			}
			if !identity.HasPermission(permission) {
				return echo.NewHTTPError(http.StatusForbidden, echo.Map{
					"message":            "permission '" + permission + "' required",
					"code":               "PERMISSION_DENIED",
					"requiredPermission": permission,
					"userPermissions":    identity.Permissions,
				})
			}
			return next(c)
		}
	}
}
