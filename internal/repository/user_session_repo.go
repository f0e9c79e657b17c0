package repository

import (
	"context"
	"errors"
	"time"

	"nvocc-platform/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSessionRepository writes are single-row conditional updates keyed
// on the primary key (or on the token tuple for the gate's read), so two
// requests racing on the same session each see a consistent row and the
// later write wins. No application-level locks.
type UserSessionRepository interface {
	Create(ctx context.Context, session *entity.UserSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserSession, error)
	// FindLive matches (userID, token, isActive, expiresAt > now). This
	// lookup is what makes server-side logout authoritative even while
	// the token's signature is still valid.
	FindLive(ctx context.Context, userID uuid.UUID, token string, now time.Time) (*entity.UserSession, error)
	FindLatestLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.UserSession, error)
	RotateToken(ctx context.Context, sessionID uuid.UUID, token string, activeRole string, expiresAt time.Time) error
	Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	Terminate(ctx context.Context, sessionID uuid.UUID) error
	TerminateAllByUser(ctx context.Context, userID uuid.UUID) error
	CountLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	TerminateOldestLive(ctx context.Context, userID uuid.UUID, now time.Time) error
}

type userSessionRepository struct {
	db *gorm.DB
}

func NewUserSessionRepository(db *gorm.DB) UserSessionRepository {
	return &userSessionRepository{db: db}
}

func (r *userSessionRepository) Create(ctx context.Context, session *entity.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *userSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserSession, error) {
	var session entity.UserSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *userSessionRepository) FindLive(ctx context.Context, userID uuid.UUID, token string, now time.Time) (*entity.UserSession, error) {
	var session entity.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ? AND is_active = true AND expires_at > ?", userID, token, now).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *userSessionRepository) FindLatestLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.UserSession, error) {
	var session entity.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true AND expires_at > ?", userID, now).
		Order("last_activity_at DESC").
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RotateToken replaces the session's access token in place. An empty
// activeRole keeps the role currently on record (refresh); a non-empty
// one switches it (role switch).
func (r *userSessionRepository) RotateToken(ctx context.Context, sessionID uuid.UUID, token string, activeRole string, expiresAt time.Time) error {
	updates := map[string]any{
		"token":            token,
		"expires_at":       expiresAt,
		"last_activity_at": time.Now(),
	}
	if activeRole != "" {
		updates["active_role"] = activeRole
	}
	return r.db.WithContext(ctx).
		Model(&entity.UserSession{}).
		Where("id = ?", sessionID).
		Updates(updates).
		Error
}

func (r *userSessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserSession{}).
		Where("id = ?", sessionID).
		Update("last_activity_at", at).
		Error
}

func (r *userSessionRepository) Terminate(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserSession{}).
		Where("id = ?", sessionID).
		Update("is_active", false).
		Error
}

func (r *userSessionRepository) TerminateAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserSession{}).
		Where("user_id = ? AND is_active = true", userID).
		Update("is_active", false).
		Error
}

func (r *userSessionRepository) CountLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.UserSession{}).
		Where("user_id = ? AND is_active = true AND expires_at > ?", userID, now).
		Count(&count).
		Error
	return count, err
}

// TerminateOldestLive evicts the least recently used live session; called
// when a login would exceed the per-user session cap.
func (r *userSessionRepository) TerminateOldestLive(ctx context.Context, userID uuid.UUID, now time.Time) error {
	var oldest entity.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true AND expires_at > ?", userID, now).
		Order("last_activity_at ASC").
		First(&oldest).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.Terminate(ctx, oldest.ID)
}
