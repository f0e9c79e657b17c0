package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"nvocc-platform/internal/entity"
	"nvocc-platform/internal/repository"
	"nvocc-platform/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Burned on lookups for unknown emails so response timing matches the
// wrong-password path.
const dummyPasswordHash = "$2a$12$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users         repository.UserRepository
	roles         repository.RoleRepository
	sessions      repository.UserSessionRepository
	refreshTokens repository.RefreshTokenRepository
	resetTokens   repository.PasswordResetTokenRepository
	mfaSecrets    repository.MFASecretRepository
	activityLogs  repository.ActivityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       TokenIssuer
	mfaTickets   MFATicketIssuer
	mfaProvider  MFAProvider
	clock        Clock
	config       AuthConfig
	logger       *logrus.Logger
}

func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	sessions repository.UserSessionRepository,
	refreshTokens repository.RefreshTokenRepository,
	resetTokens repository.PasswordResetTokenRepository,
	mfaSecrets repository.MFASecretRepository,
	activityLogs repository.ActivityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	mfaTickets MFATicketIssuer,
	mfaProvider MFAProvider,
	clock Clock,
	config AuthConfig,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		roles:         roles,
		sessions:      sessions,
		refreshTokens: refreshTokens,
		resetTokens:   resetTokens,
		mfaSecrets:    mfaSecrets,
		activityLogs:  activityLogs,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		tokens:        tokens,
		mfaTickets:    mfaTickets,
		mfaProvider:   mfaProvider,
		clock:         clock,
		config:        config,
		logger:        logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput, meta ClientMeta) (*Profile, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		if err == utils.ErrWeakPassword {
			return nil, ErrWeakPassword
		}
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		Email:             email,
		PasswordHash:      &hash,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PhoneNumber:       input.PhoneNumber,
		Status:            entity.UserStatusActive,
		PasswordChangedAt: &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	roleRows, err := s.roles.FindByNames(ctx, input.Roles)
	if err != nil {
		return nil, err
	}
	for i := range roleRows {
		assignment := &entity.UserRole{
			UserID:    user.ID,
			RoleID:    roleRows[i].ID,
			IsActive:  true,
			IsDefault: i == 0,
			GrantedBy: input.GrantedBy,
		}
		if err := s.users.AssignRole(ctx, assignment); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, &user.ID, entity.ActionRegister, "User", strPtr(user.ID.String()), map[string]any{
		"email": email,
		"roles": input.Roles,
	}, meta)

	return s.GetProfile(ctx, user.ID)
}

// Login verifies credentials and account status, creates exactly one
// session row and one refresh token row, and returns the resolved
// identity. Unknown-email and wrong-password both come back as
// ErrInvalidCredentials; only the audit trail can tell them apart.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.audit(ctx, nil, entity.ActionLoginFailed, "User", nil, map[string]any{
			"email":  email,
			"reason": "user not found",
		}, input.Meta)
		return nil, ErrInvalidCredentials
	}

	if user.Status != entity.UserStatusActive {
		s.audit(ctx, &user.ID, entity.ActionLoginFailed, "User", strPtr(user.ID.String()), map[string]any{
			"reason": "account not active",
			"status": string(user.Status),
		}, input.Meta)
		return nil, ErrAccountNotActive
	}

	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		s.audit(ctx, &user.ID, entity.ActionLoginFailed, "User", strPtr(user.ID.String()), map[string]any{
			"reason": "invalid password",
		}, input.Meta)
		return nil, ErrInvalidCredentials
	}

	if s.passwordExpired(user) {
		s.audit(ctx, &user.ID, entity.ActionLoginFailed, "User", strPtr(user.ID.String()), map[string]any{
			"reason": "password expired",
		}, input.Meta)
		return nil, ErrPasswordExpired
	}

	if s.mfaProvider != nil && s.mfaSecrets != nil && s.mfaTickets != nil {
		secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if secret != nil && secret.EnabledAt != nil {
			ticket, ttl, err := s.mfaTickets.IssueTicket(user.ID)
			if err != nil {
				return nil, err
			}
			return &LoginResult{
				MFARequired:     true,
				MFATicket:       ticket,
				MFATicketExpiry: int64(ttl.Seconds()),
			}, nil
		}
	}

	return s.createSessionAndTokens(ctx, user, input.Meta)
}

func (s *AuthService) LoginWithMFA(ctx context.Context, input LoginMFAInput) (*LoginResult, error) {
	if s.mfaProvider == nil || s.mfaTickets == nil || s.mfaSecrets == nil {
		return nil, ErrMFANotConfigured
	}
	if strings.TrimSpace(input.Ticket) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrInvalidInput
	}

	userID, err := s.mfaTickets.ParseTicket(input.Ticket)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.EnabledAt == nil {
		return nil, ErrMFANotConfigured
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, input.Code) {
		s.audit(ctx, &user.ID, entity.ActionMFAFailed, "User", strPtr(user.ID.String()), nil, input.Meta)
		return nil, ErrInvalidMFACode
	}

	return s.createSessionAndTokens(ctx, user, input.Meta)
}

// SwitchRole re-points the session at another of the user's assigned
// roles: a new access token embedding the target role replaces the
// session's token in place. No new session row, and the refresh token is
// left untouched.
func (s *AuthService) SwitchRole(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, targetRole string) (*SwitchRoleResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	activeRoles := ActiveRoles(user)
	assigned := false
	for _, role := range activeRoles {
		if role.Name == targetRole {
			assigned = true
			break
		}
	}
	if !assigned {
		return nil, ErrRoleNotAssigned
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive || session.UserID != userID {
		return nil, ErrInvalidSession
	}
	previousRole := session.ActiveRole

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user.ID.String(), user.Email, targetRole, RoleNames(activeRoles))
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RotateToken(ctx, session.ID, accessToken, targetRole, expiresAt); err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.ActionRoleSwitch, "UserSession", strPtr(session.ID.String()), map[string]any{
		"previousRole": previousRole,
		"newRole":      targetRole,
	}, ClientMeta{IPAddress: session.IPAddress, UserAgent: session.UserAgent})

	session.Token = accessToken
	session.ActiveRole = targetRole
	session.ExpiresAt = expiresAt

	return &SwitchRoleResult{
		Identity:        s.buildIdentity(user, targetRole, session),
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
	}, nil
}

// Refresh mints a new access token from a refresh token. Signature
// failure, a missing or revoked row, and a lapsed stored expiry all read
// as the same ErrRefreshTokenInvalid. The active role is carried over
// from the session currently on record, falling back to the default
// assignment when no live session exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrRefreshTokenInvalid
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	record, err := s.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if record == nil || record.IsRevoked || record.ExpiresAt.Before(now) {
		return nil, ErrRefreshTokenInvalid
	}
	if claims.UserID != record.UserID.String() {
		return nil, ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRefreshTokenInvalid
	}

	session, err := s.sessions.FindLatestLiveByUser(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	activeRole := DefaultRole(user)
	if session != nil && session.ActiveRole != "" {
		activeRole = session.ActiveRole
	}

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user.ID.String(), user.Email, activeRole, RoleNames(ActiveRoles(user)))
	if err != nil {
		return nil, err
	}
	if session != nil {
		if err := s.sessions.RotateToken(ctx, session.ID, accessToken, "", expiresAt); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, &user.ID, entity.ActionTokenRefresh, "User", strPtr(user.ID.String()), map[string]any{
		"activeRole": activeRole,
	}, ClientMeta{})

	return &RefreshResult{AccessToken: accessToken, AccessExpiresAt: expiresAt}, nil
}

// Logout terminates the session and revokes every refresh token the user
// holds, not just the one tied to this device. Logging out anywhere logs
// the user out everywhere; single-device logout is deliberately not
// offered.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, meta ClientMeta) error {
	if err := s.sessions.Terminate(ctx, sessionID); err != nil {
		return err
	}
	if err := s.refreshTokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}

	s.audit(ctx, &userID, entity.ActionLogout, "User", strPtr(userID.String()), map[string]any{
		"sessionId": sessionID.String(),
	}, meta)
	return nil
}

// Authenticate is the per-request gate: verify the token, re-validate
// user status, and cross-check the live session row. The token's own
// signature being valid is never sufficient — without a matching
// (user, token, active, unexpired) session the request is rejected,
// which is what makes logout and role switch take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, *entity.UserSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, ErrAccessTokenInvalid
	}

	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, nil, ErrAccessTokenInvalid
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, ErrAccessTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrAccessTokenInvalid
	}
	if user.Status != entity.UserStatusActive {
		return nil, nil, ErrAccountNotActive
	}

	now := s.now()
	session, err := s.sessions.FindLive(ctx, user.ID, token, now)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrInvalidSession
	}

	if err := s.sessions.Touch(ctx, session.ID, now); err != nil {
		return nil, nil, err
	}
	session.LastActivityAt = now

	activeRole := claims.ActiveRole
	if activeRole == "" {
		activeRole = DefaultRole(user)
	}

	return s.buildIdentity(user, activeRole, session), session, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	activeRoles := ActiveRoles(user)
	roleInfos := make([]RoleInfo, 0, len(activeRoles))
	defaultRole := DefaultRole(user)
	for _, role := range activeRoles {
		roleInfos = append(roleInfos, RoleInfo{
			Name:        role.Name,
			DisplayName: role.DisplayName,
			IsActive:    role.Name == defaultRole,
		})
	}

	return &Profile{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		Roles:       roleInfos,
		Permissions: ResolvePermissions(activeRoles),
		Menus:       ResolveMenus(activeRoles),
	}, nil
}

// AvailableRoles lists the user's assigned roles with the session's
// current active role flagged.
func (s *AuthService) AvailableRoles(ctx context.Context, userID uuid.UUID, activeRole string) ([]RoleInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	activeRoles := ActiveRoles(user)
	roleInfos := make([]RoleInfo, 0, len(activeRoles))
	for _, role := range activeRoles {
		roleInfos = append(roleInfos, RoleInfo{
			Name:        role.Name,
			DisplayName: role.DisplayName,
			IsActive:    role.Name == activeRole,
		})
	}
	return roleInfos, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string, meta ClientMeta) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.PasswordHash == nil || !s.passwordHash.Verify(*user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		if err == utils.ErrWeakPassword {
			return ErrWeakPassword
		}
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		return err
	}

	// Other devices must re-authenticate with the new password.
	_ = s.refreshTokens.RevokeAllByUser(ctx, user.ID)

	s.audit(ctx, &user.ID, entity.ActionPasswordChange, "User", strPtr(user.ID.String()), nil, meta)
	return nil
}

// RequestPasswordReset always reports success to the caller; whether the
// email exists is only visible in the audit trail.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta ClientMeta) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil
	}

	rawToken, err := utils.GenerateRandomToken(32)
	if err != nil {
		return err
	}
	record := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(rawToken),
		ExpiresAt: s.now().Add(s.resetTokenTTL()),
	}
	if err := s.resetTokens.Create(ctx, record); err != nil {
		return err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, rawToken); err != nil {
			return err
		}
	}

	s.audit(ctx, &user.ID, entity.ActionPasswordReset, "User", strPtr(user.ID.String()), map[string]any{
		"stage": "requested",
	}, meta)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string, meta ClientMeta) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	record, err := s.resetTokens.FindValid(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInvalidResetToken
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		if err == utils.ErrWeakPassword {
			return ErrWeakPassword
		}
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		return err
	}
	if err := s.resetTokens.MarkUsed(ctx, record.ID); err != nil {
		return err
	}

	// A reset invalidates everything outstanding for the account.
	_ = s.sessions.TerminateAllByUser(ctx, user.ID)
	_ = s.refreshTokens.RevokeAllByUser(ctx, user.ID)

	s.audit(ctx, &user.ID, entity.ActionPasswordReset, "User", strPtr(user.ID.String()), map[string]any{
		"stage": "completed",
	}, meta)
	return nil
}

func (s *AuthService) EnableMFA(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return "", ErrMFANotConfigured
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	secret, err := s.mfaProvider.GenerateSecret()
	if err != nil {
		return "", err
	}
	if err := s.mfaSecrets.Upsert(ctx, &entity.MFASecret{UserID: user.ID, Secret: secret}); err != nil {
		return "", err
	}
	return s.mfaProvider.QRCodeURL(user.Email, s.config.MFAIssuer, secret)
}

func (s *AuthService) VerifyMFA(ctx context.Context, userID uuid.UUID, code string) error {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return ErrMFANotConfigured
	}
	secret, err := s.mfaSecrets.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrMFANotConfigured
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		return ErrInvalidMFACode
	}

	now := s.now()
	secret.EnabledAt = &now
	return s.mfaSecrets.Upsert(ctx, secret)
}

func (s *AuthService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	if s.mfaSecrets == nil {
		return nil
	}
	return s.mfaSecrets.Delete(ctx, userID)
}

func (s *AuthService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) ([]entity.ActivityLog, error) {
	return s.activityLogs.List(ctx, filter)
}

func (s *AuthService) createSessionAndTokens(ctx context.Context, user *entity.User, meta ClientMeta) (*LoginResult, error) {
	now := s.now()
	activeRole := DefaultRole(user)
	roleNames := RoleNames(ActiveRoles(user))

	if s.config.MaxUserSessions > 0 {
		count, err := s.sessions.CountLiveByUser(ctx, user.ID, now)
		if err != nil {
			return nil, err
		}
		for count >= int64(s.config.MaxUserSessions) {
			if err := s.sessions.TerminateOldestLive(ctx, user.ID, now); err != nil {
				return nil, err
			}
			count--
		}
	}

	accessToken, accessExpiresAt, err := s.tokens.IssueAccessToken(user.ID.String(), user.Email, activeRole, roleNames)
	if err != nil {
		return nil, err
	}

	session := &entity.UserSession{
		UserID:         user.ID,
		Token:          accessToken,
		ActiveRole:     activeRole,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		IsActive:       true,
		ExpiresAt:      accessExpiresAt,
		LastActivityAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.tokens.IssueRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}
	record := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpiresAt,
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.ActionLoginSuccess, "User", strPtr(user.ID.String()), map[string]any{
		"activeRole": activeRole,
		"sessionId":  session.ID.String(),
	}, meta)

	return &LoginResult{
		Identity:         s.buildIdentity(user, activeRole, session),
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (s *AuthService) buildIdentity(user *entity.User, activeRole string, session *entity.UserSession) *Identity {
	activeRoles := ActiveRoles(user)
	identity := &Identity{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Roles:       RoleNames(activeRoles),
		ActiveRole:  activeRole,
		Permissions: ResolvePermissions(activeRoles),
		Menus:       ResolveMenus(activeRoles),
	}
	if session != nil {
		identity.SessionID = session.ID
		identity.SessionExpiresAt = session.ExpiresAt
	}
	return identity
}

// audit writes to the activity log and swallows every failure: a broken
// audit sink must never block authentication.
func (s *AuthService) audit(ctx context.Context, userID *uuid.UUID, action entity.ActivityAction, entityName string, entityID *string, details map[string]any, meta ClientMeta) {
	if s.activityLogs == nil {
		return
	}

	var payload datatypes.JSON
	if details != nil {
		bytes, err := json.Marshal(details)
		if err == nil {
			payload = datatypes.JSON(bytes)
		}
	}

	log := &entity.ActivityLog{
		UserID:    userID,
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		Details:   payload,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.activityLogs.Log(ctx, log); err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("action", string(action)).Warn("activity log write failed")
	}
}

func (s *AuthService) passwordExpired(user *entity.User) bool {
	if s.config.PasswordExpiryDays <= 0 || user.PasswordChangedAt == nil {
		return false
	}
	cutoff := user.PasswordChangedAt.AddDate(0, 0, s.config.PasswordExpiryDays)
	return s.now().After(cutoff)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return 30 * time.Minute
}

func strPtr(s string) *string {
	return &s
}
