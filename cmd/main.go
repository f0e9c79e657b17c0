package main

import (
	"net/http"
	"os"
	"time"

	"nvocc-platform/api/handler"
	apiMiddleware "nvocc-platform/api/middleware"
	"nvocc-platform/api/routes"
	"nvocc-platform/config"
	"nvocc-platform/internal/repository"
	"nvocc-platform/internal/service"
	"nvocc-platform/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db := config.ConnectionDb(cfg.DatabaseURL)
	validate := validator.New()

	tokenManager := &utils.TokenManager{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	mfaTickets := service.MFATicketIssuerJWT{
		Secret: []byte(cfg.MFAJWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.MFATicketTTL,
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	resetRepo := repository.NewPasswordResetTokenRepository(db)
	mfaRepo := repository.NewMFASecretRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	var emailSender service.EmailSender
	if cfg.ResendAPIKey != "" {
		emailSender = service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	}

	authService := service.NewAuthService(
		userRepo,
		roleRepo,
		sessionRepo,
		refreshRepo,
		resetRepo,
		mfaRepo,
		activityRepo,
		emailSender,
		service.BcryptPasswordHasher{Cost: cfg.BcryptCost},
		tokenManager,
		mfaTickets,
		service.NewTOTPProvider(cfg.MFAIssuer),
		service.RealClock{},
		service.AuthConfig{
			AccessTokenTTL:     cfg.AccessTokenTTL,
			RefreshTokenTTL:    cfg.RefreshTokenTTL,
			ResetTokenTTL:      cfg.ResetTokenTTL,
			MFATicketTTL:       cfg.MFATicketTTL,
			PasswordExpiryDays: cfg.PasswordExpiryDays,
			MaxUserSessions:    cfg.MaxUserSessions,
			BcryptCost:         cfg.BcryptCost,
			MFAIssuer:          cfg.MFAIssuer,
		},
		logger,
	)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.SecureCookies
	activityHandler := handler.NewActivityLogHandler(authService)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Auth: authService}
	router := routes.NewRouter(app, authHandler, activityHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
