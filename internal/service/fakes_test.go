package service

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"nvocc-platform/internal/entity"
	"nvocc-platform/internal/repository"
	"nvocc-platform/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// In-memory repository doubles. They mirror the gorm implementations'
// contract: lookups return (nil, nil) when nothing matches.

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	rolesByID map[uuid.UUID]entity.Role
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*entity.User),
		rolesByID: make(map[uuid.UUID]entity.Role),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	if user, ok := r.users[userID]; ok {
		stamp := at
		user.LastLoginAt = &stamp
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hash string, at time.Time) error {
	if user, ok := r.users[userID]; ok {
		stamp := at
		user.PasswordHash = &hash
		user.PasswordChangedAt = &stamp
	}
	return nil
}

func (r *fakeUserRepo) AssignRole(_ context.Context, assignment *entity.UserRole) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	assignment.Role = r.rolesByID[assignment.RoleID]
	if user, ok := r.users[assignment.UserID]; ok {
		user.UserRoles = append(user.UserRoles, *assignment)
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

type fakeRoleRepo struct {
	byName map[string]entity.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byName: make(map[string]entity.Role)}
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*entity.Role, error) {
	role, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r *fakeRoleRepo) FindByNames(_ context.Context, names []string) ([]entity.Role, error) {
	roles := make([]entity.Role, 0, len(names))
	for _, name := range names {
		if role, ok := r.byName[name]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *fakeRoleRepo) List(_ context.Context) ([]entity.Role, error) {
	roles := make([]entity.Role, 0, len(r.byName))
	for _, role := range r.byName {
		roles = append(roles, role)
	}
	return roles, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.UserSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.UserSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.UserSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.UserSession, error) {
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) FindLive(_ context.Context, userID uuid.UUID, token string, now time.Time) (*entity.UserSession, error) {
	for _, session := range r.sessions {
		if session.UserID == userID && session.Token == token && session.IsActive && session.ExpiresAt.After(now) {
			return session, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindLatestLiveByUser(_ context.Context, userID uuid.UUID, now time.Time) (*entity.UserSession, error) {
	var latest *entity.UserSession
	for _, session := range r.sessions {
		if session.UserID != userID || !session.IsActive || !session.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || session.LastActivityAt.After(latest.LastActivityAt) {
			latest = session
		}
	}
	return latest, nil
}

func (r *fakeSessionRepo) RotateToken(_ context.Context, sessionID uuid.UUID, token string, activeRole string, expiresAt time.Time) error {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.Token = token
	if activeRole != "" {
		session.ActiveRole = activeRole
	}
	session.ExpiresAt = expiresAt
	return nil
}

func (r *fakeSessionRepo) Touch(_ context.Context, sessionID uuid.UUID, at time.Time) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.LastActivityAt = at
	}
	return nil
}

func (r *fakeSessionRepo) Terminate(_ context.Context, sessionID uuid.UUID) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

func (r *fakeSessionRepo) TerminateAllByUser(_ context.Context, userID uuid.UUID) error {
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsActive = false
		}
	}
	return nil
}

func (r *fakeSessionRepo) CountLiveByUser(_ context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive && session.ExpiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) TerminateOldestLive(_ context.Context, userID uuid.UUID, now time.Time) error {
	var oldest *entity.UserSession
	for _, session := range r.sessions {
		if session.UserID != userID || !session.IsActive || !session.ExpiresAt.After(now) {
			continue
		}
		if oldest == nil || session.LastActivityAt.Before(oldest.LastActivityAt) {
			oldest = session
		}
	}
	if oldest != nil {
		oldest.IsActive = false
	}
	return nil
}

type fakeRefreshTokenRepo struct {
	byToken map[string]*entity.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{byToken: make(map[string]*entity.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.byToken[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(_ context.Context, token string) (*entity.RefreshToken, error) {
	return r.byToken[token], nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uuid.UUID) error {
	for _, record := range r.byToken {
		if record.ID == id {
			record.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	for _, record := range r.byToken {
		if record.UserID == userID {
			record.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) CleanupExpired(_ context.Context) error {
	for token, record := range r.byToken {
		if record.ExpiresAt.Before(time.Now()) {
			delete(r.byToken, token)
		}
	}
	return nil
}

type fakeResetTokenRepo struct {
	records []*entity.PasswordResetToken
}

func (r *fakeResetTokenRepo) Create(_ context.Context, token *entity.PasswordResetToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.records = append(r.records, token)
	return nil
}

func (r *fakeResetTokenRepo) FindValid(_ context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	for _, record := range r.records {
		if record.TokenHash == tokenHash && record.UsedAt == nil && record.ExpiresAt.After(time.Now()) {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeResetTokenRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	for _, record := range r.records {
		if record.ID == id {
			now := time.Now()
			record.UsedAt = &now
		}
	}
	return nil
}

type fakeMFARepo struct {
	secrets map[uuid.UUID]*entity.MFASecret
}

func newFakeMFARepo() *fakeMFARepo {
	return &fakeMFARepo{secrets: make(map[uuid.UUID]*entity.MFASecret)}
}

func (r *fakeMFARepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.MFASecret, error) {
	return r.secrets[userID], nil
}

func (r *fakeMFARepo) Upsert(_ context.Context, secret *entity.MFASecret) error {
	if secret.ID == uuid.Nil {
		secret.ID = uuid.New()
	}
	r.secrets[secret.UserID] = secret
	return nil
}

func (r *fakeMFARepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(r.secrets, userID)
	return nil
}

type fakeActivityRepo struct {
	entries []entity.ActivityLog
}

func (r *fakeActivityRepo) Log(_ context.Context, log *entity.ActivityLog) error {
	r.entries = append(r.entries, *log)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]entity.ActivityLog, error) {
	matched := make([]entity.ActivityLog, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.UserID != nil && (entry.UserID == nil || *entry.UserID != *filter.UserID) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched, nil
}

func (r *fakeActivityRepo) lastAction() entity.ActivityAction {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Action
}

// fakePasswordHasher keeps tests off bcrypt. The "weak" threshold mirrors
// the production minimum length so error mapping stays testable.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	if len(password) < utils.MinPasswordLength {
		return "", utils.ErrWeakPassword
	}
	return "hashed:" + password, nil
}

func (fakePasswordHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}

type fakeEmailSender struct {
	sentTo     []string
	sentTokens []string
}

func (s *fakeEmailSender) SendPasswordResetEmail(_ context.Context, email string, token string) error {
	s.sentTo = append(s.sentTo, email)
	s.sentTokens = append(s.sentTokens, token)
	return nil
}

type fakeMFAProvider struct{}

func (fakeMFAProvider) GenerateSecret() (string, error) {
	return "FAKESECRET", nil
}

func (fakeMFAProvider) QRCodeURL(email string, issuer string, secret string) (string, error) {
	return "otpauth://totp/" + issuer + ":" + email + "?secret=" + secret, nil
}

func (fakeMFAProvider) ValidateCode(secret string, code string) bool {
	return secret == "FAKESECRET" && code == "123456"
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type authFixture struct {
	service  *AuthService
	users    *fakeUserRepo
	roles    *fakeRoleRepo
	sessions *fakeSessionRepo
	refresh  *fakeRefreshTokenRepo
	resets   *fakeResetTokenRepo
	mfa      *fakeMFARepo
	activity *fakeActivityRepo
	email    *fakeEmailSender
	tokens   utils.TokenManager
	clock    *fixedClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		users:    newFakeUserRepo(),
		roles:    newFakeRoleRepo(),
		sessions: newFakeSessionRepo(),
		refresh:  newFakeRefreshTokenRepo(),
		resets:   &fakeResetTokenRepo{},
		mfa:      newFakeMFARepo(),
		activity: &fakeActivityRepo{},
		email:    &fakeEmailSender{},
		clock:    &fixedClock{now: time.Now()},
	}
	f.tokens = utils.TokenManager{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Issuer:        "nvocc-platform",
		Audience:      "nvocc-client",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f.service = NewAuthService(
		f.users,
		f.roles,
		f.sessions,
		f.refresh,
		f.resets,
		f.mfa,
		f.activity,
		f.email,
		fakePasswordHasher{},
		f.tokens,
		MFATicketIssuerJWT{Secret: []byte("test-mfa-secret"), Issuer: "nvocc-platform", TTL: 5 * time.Minute},
		fakeMFAProvider{},
		f.clock,
		AuthConfig{
			AccessTokenTTL:     15 * time.Minute,
			RefreshTokenTTL:    7 * 24 * time.Hour,
			ResetTokenTTL:      30 * time.Minute,
			MFATicketTTL:       5 * time.Minute,
			PasswordExpiryDays: 90,
			MaxUserSessions:    4,
			MFAIssuer:          "NVOCC Platform",
		},
		logger,
	)
	return f
}

func (f *authFixture) seedRole(role entity.Role) entity.Role {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	f.roles.byName[role.Name] = role
	f.users.rolesByID[role.ID] = role
	return role
}

func (f *authFixture) seedUser(t *testing.T, email string, password string, assignments ...entity.UserRole) *entity.User {
	t.Helper()

	hash := "hashed:" + password
	changedAt := f.clock.now
	user := &entity.User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      &hash,
		FirstName:         "Test",
		LastName:          "User",
		Status:            entity.UserStatusActive,
		PasswordChangedAt: &changedAt,
		UserRoles:         assignments,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
