package routes

import (
	"time"

	"nvocc-platform/api/handler"
	"nvocc-platform/api/middleware"
	"nvocc-platform/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	ActivityLogs   *handler.ActivityLogHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, activityHandler *handler.ActivityLogHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		ActivityLogs:   activityHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	api := r.Echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register, r.AuthRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/login/mfa", r.Auth.LoginWithMFA, r.LoginRate.Middleware())
	auth.POST("/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	auth.POST("/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)
	auth.POST("/switch-role", r.Auth.SwitchRole, r.AuthMiddleware.RequireAuth)
	auth.GET("/check", r.Auth.Check, r.AuthMiddleware.RequireAuth)
	auth.GET("/profile", r.Auth.Profile, r.AuthMiddleware.RequireAuth)
	auth.GET("/roles", r.Auth.Roles, r.AuthMiddleware.RequireAuth)
	auth.GET("/menus", r.Auth.Menus, r.AuthMiddleware.RequireAuth)
	auth.POST("/password/change", r.Auth.ChangePassword, r.AuthMiddleware.RequireAuth)
	auth.POST("/password/forgot", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	auth.POST("/password/reset", r.Auth.PasswordReset, r.AuthRate.Middleware())
	auth.POST("/password/strength", r.Auth.PasswordStrength, r.AuthRate.Middleware())
	auth.POST("/mfa/enable", r.Auth.EnableMFA, r.AuthMiddleware.RequireAuth)
	auth.POST("/mfa/verify", r.Auth.VerifyMFA, r.AuthMiddleware.RequireAuth)
	auth.POST("/mfa/disable", r.Auth.DisableMFA, r.AuthMiddleware.RequireAuth)

	api.GET("/activity-logs", r.ActivityLogs.List,
		r.AuthMiddleware.RequireAuth,
		middleware.RequireRole(entity.RoleAdmin),
		middleware.RequirePermission("system.logs"),
	)
}
