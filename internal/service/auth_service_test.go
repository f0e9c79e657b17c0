package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nvocc-platform/internal/entity"

	"github.com/google/uuid"
)

func salesCustomerAssignments() []entity.UserRole {
	return []entity.UserRole{
		{IsActive: true, Role: activeRole("SALES", "bookings.view", "bookings.create")},
		{IsActive: true, IsDefault: true, Role: activeRole("CUSTOMER", "bookings.view")},
	}
}

func TestLoginCreatesOneSessionAndOneRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	result, err := f.service.Login(context.Background(), LoginInput{
		Email:    "Ops@Example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if len(f.sessions.sessions) != 1 {
		t.Errorf("session rows = %d, want 1", len(f.sessions.sessions))
	}
	if len(f.refresh.byToken) != 1 {
		t.Errorf("refresh token rows = %d, want 1", len(f.refresh.byToken))
	}
	if result.Identity.ActiveRole != "CUSTOMER" {
		t.Errorf("ActiveRole = %q, want CUSTOMER (flagged default)", result.Identity.ActiveRole)
	}
	if !result.Identity.HasRole("SALES") || !result.Identity.HasRole("CUSTOMER") {
		t.Errorf("Roles = %v, want both SALES and CUSTOMER", result.Identity.Roles)
	}
	if !result.Identity.HasPermission("bookings.create") {
		t.Errorf("Permissions = %v, missing bookings.create", result.Identity.Permissions)
	}

	session := f.sessions.sessions[result.Identity.SessionID]
	if session == nil {
		t.Fatal("session row not found by identity session id")
	}
	if session.Token != result.AccessToken {
		t.Error("session row does not hold the issued access token")
	}
	if session.ActiveRole != "CUSTOMER" {
		t.Errorf("session ActiveRole = %q, want CUSTOMER", session.ActiveRole)
	}

	user, _ := f.users.FindByEmail(context.Background(), "ops@example.com")
	if user.LastLoginAt == nil {
		t.Error("LastLoginAt not stamped")
	}
	if f.activity.lastAction() != entity.ActionLoginSuccess {
		t.Errorf("last audit action = %q, want %q", f.activity.lastAction(), entity.ActionLoginSuccess)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "Str0ng!Pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if f.activity.lastAction() != entity.ActionLoginFailed {
		t.Errorf("last audit action = %q, want %q", f.activity.lastAction(), entity.ActionLoginFailed)
	}
	if f.activity.entries[len(f.activity.entries)-1].UserID != nil {
		t.Error("failed login for unknown email must not reference a user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	_, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Wr0ng!Pass1",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if len(f.sessions.sessions) != 0 {
		t.Errorf("session rows = %d, want 0", len(f.sessions.sessions))
	}
}

func TestLoginSuspendedAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)
	user.Status = entity.UserStatusSuspended

	_, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("error = %v, want ErrAccountNotActive", err)
	}
}

// Status is checked before the password, so a suspended account reads as
// inactive even with wrong credentials.
func TestLoginInactiveAccountWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)
	user.Status = entity.UserStatusInactive

	_, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Wr0ng!Pass1",
	})
	if !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("error = %v, want ErrAccountNotActive", err)
	}
}

func TestLoginExpiredPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)
	stale := f.clock.now.AddDate(0, 0, -91)
	user.PasswordChangedAt = &stale

	_, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if !errors.Is(err, ErrPasswordExpired) {
		t.Fatalf("error = %v, want ErrPasswordExpired", err)
	}
}

func TestLoginEvictsOldestSessionAtCap(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	var oldestID uuid.UUID
	for i := 0; i < 4; i++ {
		session := &entity.UserSession{
			UserID:         user.ID,
			Token:          "token-" + string(rune('a'+i)),
			IsActive:       true,
			ExpiresAt:      f.clock.now.Add(10 * time.Minute),
			LastActivityAt: f.clock.now.Add(time.Duration(i) * time.Minute),
		}
		if err := f.sessions.Create(context.Background(), session); err != nil {
			t.Fatalf("seed session: %v", err)
		}
		if i == 0 {
			oldestID = session.ID
		}
	}

	if _, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	count, _ := f.sessions.CountLiveByUser(context.Background(), user.ID, f.clock.now)
	if count != 4 {
		t.Errorf("live sessions after login = %d, want 4 (cap)", count)
	}
	if f.sessions.sessions[oldestID].IsActive {
		t.Error("least recently active session was not terminated")
	}
}

func TestSwitchRoleRotatesAccessTokenInPlace(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessionID := login.Identity.SessionID

	result, err := f.service.SwitchRole(context.Background(), user.ID, sessionID, "SALES")
	if err != nil {
		t.Fatalf("SwitchRole: %v", err)
	}

	if len(f.sessions.sessions) != 1 {
		t.Errorf("session rows = %d, want 1 (rotation is in place)", len(f.sessions.sessions))
	}
	session := f.sessions.sessions[sessionID]
	if session.Token != result.AccessToken {
		t.Error("session row does not hold the rotated access token")
	}
	if session.Token == login.AccessToken {
		t.Error("access token was not replaced")
	}
	if session.ActiveRole != "SALES" {
		t.Errorf("session ActiveRole = %q, want SALES", session.ActiveRole)
	}

	claims, err := f.tokens.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ActiveRole != "SALES" {
		t.Errorf("token ActiveRole = %q, want SALES", claims.ActiveRole)
	}

	// The refresh token is untouched by a role switch.
	record, _ := f.refresh.FindByToken(context.Background(), login.RefreshToken)
	if record == nil || record.IsRevoked {
		t.Error("refresh token should survive a role switch")
	}
	if f.activity.lastAction() != entity.ActionRoleSwitch {
		t.Errorf("last audit action = %q, want %q", f.activity.lastAction(), entity.ActionRoleSwitch)
	}
}

func TestSwitchRoleUnassignedRole(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err = f.service.SwitchRole(context.Background(), user.ID, login.Identity.SessionID, "ADMIN")
	if !errors.Is(err, ErrRoleNotAssigned) {
		t.Fatalf("error = %v, want ErrRoleNotAssigned", err)
	}

	session := f.sessions.sessions[login.Identity.SessionID]
	if session.Token != login.AccessToken {
		t.Error("failed switch must leave the session token unchanged")
	}
}

func TestSwitchRoleTerminatedSession(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.sessions.Terminate(context.Background(), login.Identity.SessionID); err != nil {
		t.Fatalf("terminate: %v", err)
	}

	_, err = f.service.SwitchRole(context.Background(), user.ID, login.Identity.SessionID, "SALES")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("error = %v, want ErrInvalidSession", err)
	}
}

func TestRefreshRotatesSessionToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	result, err := f.service.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := f.tokens.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ActiveRole != "CUSTOMER" {
		t.Errorf("refreshed token ActiveRole = %q, want CUSTOMER (carried over)", claims.ActiveRole)
	}

	session := f.sessions.sessions[login.Identity.SessionID]
	if session.Token != result.AccessToken {
		t.Error("session row does not hold the refreshed access token")
	}
	if session.ActiveRole != "CUSTOMER" {
		t.Errorf("refresh must not change the active role, got %q", session.ActiveRole)
	}
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.refresh.RevokeAllByUser(context.Background(), user.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := f.service.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("error = %v, want ErrRefreshTokenInvalid", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)
	for _, token := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		if _, err := f.service.Refresh(context.Background(), token); !errors.Is(err, ErrRefreshTokenInvalid) {
			t.Errorf("Refresh(%q) error = %v, want ErrRefreshTokenInvalid", token, err)
		}
	}
}

// Logout must defeat the still-valid token signature: the gate's session
// cross-check is what makes it take effect immediately.
func TestLogoutRevokesEverythingAndClosesGate(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, _, err := f.service.Authenticate(context.Background(), login.AccessToken); err != nil {
		t.Fatalf("Authenticate before logout: %v", err)
	}

	if err := f.service.Logout(context.Background(), user.ID, login.Identity.SessionID, ClientMeta{}); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, _, err := f.service.Authenticate(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Authenticate after logout error = %v, want ErrInvalidSession", err)
	}

	for _, record := range f.refresh.byToken {
		if !record.IsRevoked {
			t.Error("logout must revoke every refresh token the user holds")
		}
	}
	if f.activity.lastAction() != entity.ActionLogout {
		t.Errorf("last audit action = %q, want %q", f.activity.lastAction(), entity.ActionLogout)
	}
}

func TestAuthenticateTouchesLastActivity(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.clock.advance(10 * time.Minute)
	identity, session, err := f.service.Authenticate(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !session.LastActivityAt.Equal(f.clock.now) {
		t.Errorf("LastActivityAt = %v, want %v", session.LastActivityAt, f.clock.now)
	}
	if identity.ActiveRole != "CUSTOMER" {
		t.Errorf("ActiveRole = %q, want CUSTOMER", identity.ActiveRole)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	f := newAuthFixture(t)
	for _, token := range []string{"", "not-a-token"} {
		if _, _, err := f.service.Authenticate(context.Background(), token); !errors.Is(err, ErrAccessTokenInvalid) {
			t.Errorf("Authenticate(%q) error = %v, want ErrAccessTokenInvalid", token, err)
		}
	}
}

func TestAuthenticateRejectsSuspendedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user.Status = entity.UserStatusSuspended
	if _, _, err := f.service.Authenticate(context.Background(), login.AccessToken); !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("error = %v, want ErrAccountNotActive", err)
	}
}

func TestRegisterAssignsFirstRoleAsDefault(t *testing.T) {
	f := newAuthFixture(t)
	f.seedRole(activeRole("SALES", "bookings.view"))
	f.seedRole(activeRole("CUSTOMER"))

	profile, err := f.service.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  "Str0ng!Pass",
		FirstName: "New",
		LastName:  "Hire",
		Roles:     []string{"SALES", "CUSTOMER"},
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(profile.Roles) != 2 {
		t.Fatalf("profile roles = %d, want 2", len(profile.Roles))
	}

	user, _ := f.users.FindByEmail(context.Background(), "new@example.com")
	if !user.UserRoles[0].IsDefault {
		t.Error("first assigned role must be flagged default")
	}
	if user.UserRoles[1].IsDefault {
		t.Error("only the first role may be the default")
	}
	if DefaultRole(user) != "SALES" {
		t.Errorf("DefaultRole = %q, want SALES", DefaultRole(user))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "taken@example.com", "Str0ng!Pass")

	_, err := f.service.Register(context.Background(), RegisterInput{
		Email:    "Taken@Example.com",
		Password: "Str0ng!Pass",
	}, ClientMeta{})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("error = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "short",
	}, ClientMeta{})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("error = %v, want ErrWeakPassword", err)
	}
}

func TestChangePasswordRevokesRefreshTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := f.service.ChangePassword(context.Background(), user.ID, "Str0ng!Pass", "N3w!Passw0rd", ClientMeta{}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	record, _ := f.refresh.FindByToken(context.Background(), login.RefreshToken)
	if record == nil || !record.IsRevoked {
		t.Error("password change must revoke outstanding refresh tokens")
	}
	if !(fakePasswordHasher{}).Verify(*user.PasswordHash, "N3w!Passw0rd") {
		t.Error("stored hash does not match the new password")
	}
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass")

	err := f.service.ChangePassword(context.Background(), user.ID, "Wr0ng!Pass1", "N3w!Passw0rd", ClientMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := f.service.RequestPasswordReset(context.Background(), "ops@example.com", ClientMeta{}); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(f.email.sentTokens) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(f.email.sentTokens))
	}
	rawToken := f.email.sentTokens[0]

	if err := f.service.ResetPassword(context.Background(), rawToken, "N3w!Passw0rd", ClientMeta{}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// A reset kills every session and refresh token outstanding.
	if _, _, err := f.service.Authenticate(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Authenticate after reset error = %v, want ErrInvalidSession", err)
	}
	record, _ := f.refresh.FindByToken(context.Background(), login.RefreshToken)
	if record == nil || !record.IsRevoked {
		t.Error("reset must revoke refresh tokens")
	}
	if !(fakePasswordHasher{}).Verify(*user.PasswordHash, "N3w!Passw0rd") {
		t.Error("stored hash does not match the new password")
	}

	// Reset tokens are one-shot.
	if err := f.service.ResetPassword(context.Background(), rawToken, "An0ther!Pass", ClientMeta{}); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("second use error = %v, want ErrInvalidResetToken", err)
	}
}

// Whether an email exists must not be observable through this endpoint.
func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	if err := f.service.RequestPasswordReset(context.Background(), "nobody@example.com", ClientMeta{}); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(f.email.sentTokens) != 0 {
		t.Errorf("emails sent = %d, want 0", len(f.email.sentTokens))
	}
	if len(f.resets.records) != 0 {
		t.Errorf("reset records = %d, want 0", len(f.resets.records))
	}
}

func TestLoginWithMFAFlow(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass", salesCustomerAssignments()...)
	enabledAt := f.clock.now
	f.mfa.secrets[user.ID] = &entity.MFASecret{
		ID:        uuid.New(),
		UserID:    user.ID,
		Secret:    "FAKESECRET",
		EnabledAt: &enabledAt,
	}

	login, err := f.service.Login(context.Background(), LoginInput{
		Email:    "ops@example.com",
		Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !login.MFARequired {
		t.Fatal("expected the MFA challenge, got a full session")
	}
	if login.AccessToken != "" || login.MFATicket == "" {
		t.Fatal("MFA challenge must carry a ticket and no tokens")
	}
	if len(f.sessions.sessions) != 0 {
		t.Fatalf("session rows = %d, want 0 before the second factor", len(f.sessions.sessions))
	}

	if _, err := f.service.LoginWithMFA(context.Background(), LoginMFAInput{
		Ticket: login.MFATicket,
		Code:   "000000",
	}); !errors.Is(err, ErrInvalidMFACode) {
		t.Fatalf("wrong code error = %v, want ErrInvalidMFACode", err)
	}
	if f.activity.lastAction() != entity.ActionMFAFailed {
		t.Errorf("last audit action = %q, want %q", f.activity.lastAction(), entity.ActionMFAFailed)
	}

	result, err := f.service.LoginWithMFA(context.Background(), LoginMFAInput{
		Ticket: login.MFATicket,
		Code:   "123456",
	})
	if err != nil {
		t.Fatalf("LoginWithMFA: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("second factor success must mint both tokens")
	}
	if len(f.sessions.sessions) != 1 {
		t.Errorf("session rows = %d, want 1", len(f.sessions.sessions))
	}
}

func TestEnableAndVerifyMFA(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ops@example.com", "Str0ng!Pass")

	url, err := f.service.EnableMFA(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("EnableMFA: %v", err)
	}
	if url == "" {
		t.Fatal("empty provisioning URL")
	}

	// The secret is provisioned but does not gate login until verified.
	if secret := f.mfa.secrets[user.ID]; secret == nil || secret.EnabledAt != nil {
		t.Fatal("secret should exist and be pending verification")
	}

	if err := f.service.VerifyMFA(context.Background(), user.ID, "000000"); !errors.Is(err, ErrInvalidMFACode) {
		t.Fatalf("wrong code error = %v, want ErrInvalidMFACode", err)
	}
	if err := f.service.VerifyMFA(context.Background(), user.ID, "123456"); err != nil {
		t.Fatalf("VerifyMFA: %v", err)
	}
	if f.mfa.secrets[user.ID].EnabledAt == nil {
		t.Error("EnabledAt not stamped after verification")
	}

	if err := f.service.DisableMFA(context.Background(), user.ID); err != nil {
		t.Fatalf("DisableMFA: %v", err)
	}
	if f.mfa.secrets[user.ID] != nil {
		t.Error("secret should be deleted after disable")
	}
}
