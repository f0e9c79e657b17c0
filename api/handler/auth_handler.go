package handler

import (
	"errors"
	"net/http"
	"time"

	"nvocc-platform/api/middleware"
	"nvocc-platform/internal/dto"
	"nvocc-platform/internal/service"
	"nvocc-platform/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service           *service.AuthService
	Validate          *validator.Validate
	RefreshCookieName string
	CookieDomain      string
	SecureCookies     bool
	SameSite          http.SameSite
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Service:           svc,
		Validate:          validate,
		RefreshCookieName: "refresh_token",
		SecureCookies:     true,
		SameSite:          http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	input := service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Roles:       req.Roles,
	}
	profile, err := h.Service.Register(c.Request().Context(), input, clientMeta(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ProfileResponseFromService(profile))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Meta:     clientMeta(c),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.writeLoginResult(c, result)
}

func (h *AuthHandler) LoginWithMFA(c echo.Context) error {
	var req dto.LoginMFARequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	result, err := h.Service.LoginWithMFA(c.Request().Context(), service.LoginMFAInput{
		Ticket: req.MFATicket,
		Code:   req.Code,
		Meta:   clientMeta(c),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.writeLoginResult(c, result)
}

func (h *AuthHandler) SwitchRole(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	var req dto.SwitchRoleRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	result, err := h.Service.SwitchRole(c.Request().Context(), identity.UserID, identity.SessionID, req.Role)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SwitchRoleResponse{
		User:        dto.UserContextFromIdentity(result.Identity),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessExpiresAt,
	})
}

// Refresh accepts the refresh token from the cookie first, falling back
// to the request body for clients that cannot hold cookies.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.readRefreshCookie(c)
	if refreshToken == "" {
		var req dto.RefreshRequest
		if err := decodeJSON(c, &req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return writeError(c, http.StatusUnauthorized, "MISSING_REFRESH_TOKEN", errors.New("refresh token is required"))
	}

	result, err := h.Service.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessExpiresAt,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	if err := h.Service.Logout(c.Request().Context(), identity.UserID, identity.SessionID, clientMeta(c)); err != nil {
		return writeServiceError(c, err)
	}
	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Profile(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	profile, err := h.Service.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProfileResponseFromService(profile))
}

func (h *AuthHandler) Roles(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	roles, err := h.Service.AvailableRoles(c.Request().Context(), identity.UserID, identity.ActiveRole)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RolesResponse{
		Roles:      dto.RoleInfosFromService(roles),
		ActiveRole: identity.ActiveRole,
	})
}

// Menus serves the merged menu set already resolved by the gate; no
// second database round trip.
func (h *AuthHandler) Menus(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	return c.JSON(http.StatusOK, dto.MenusResponse{
		Menus:      identity.Menus,
		ActiveRole: identity.ActiveRole,
	})
}

func (h *AuthHandler) Check(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	return c.JSON(http.StatusOK, dto.CheckAuthResponse{
		User:    dto.UserContextFromIdentity(identity),
		Session: dto.SessionInfoFromIdentity(identity),
	})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	var req dto.ChangePasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.Service.ChangePassword(c.Request().Context(), identity.UserID, req.OldPassword, req.NewPassword, clientMeta(c)); err != nil {
		return writeServiceError(c, err)
	}
	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email, clientMeta(c)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword, clientMeta(c)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PasswordStrength is advisory scoring for signup/reset forms; it never
// enforces anything.
func (h *AuthHandler) PasswordStrength(c echo.Context) error {
	var req dto.PasswordStrengthRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	return c.JSON(http.StatusOK, utils.ValidatePasswordStrength(req.Password))
}

func (h *AuthHandler) EnableMFA(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	otpauthURL, err := h.Service.EnableMFA(c.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFAEnableResponse{OTPAuthURL: otpauthURL})
}

func (h *AuthHandler) VerifyMFA(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	var req dto.MFAVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
	}
	if err := h.Service.VerifyMFA(c.Request().Context(), identity.UserID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) DisableMFA(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("authentication required"))
	}
	if err := h.Service.DisableMFA(c.Request().Context(), identity.UserID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) writeLoginResult(c echo.Context, result *service.LoginResult) error {
	if result.MFARequired {
		return c.JSON(http.StatusOK, dto.LoginResponse{
			MFARequired:     true,
			MFATicket:       result.MFATicket,
			MFATicketExpiry: result.MFATicketExpiry,
		})
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	return c.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.UserContextFromIdentity(result.Identity),
		AccessToken: result.AccessToken,
		ExpiresAt:   &result.AccessExpiresAt,
		Session:     dto.SessionInfoFromIdentity(result.Identity),
	})
}

func (h *AuthHandler) validate(target any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(target)
}

// The refresh token travels only as an httpOnly cookie; the access token
// goes in the body for bearer-header use.
func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) readRefreshCookie(c echo.Context) string {
	cookie, err := c.Cookie(h.RefreshCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}
