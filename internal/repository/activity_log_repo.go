package repository

import (
	"context"

	"nvocc-platform/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogFilter struct {
	UserID *uuid.UUID
	Action entity.ActivityAction
	Entity string
	Limit  int
	Offset int
}

// ActivityLogRepository is append-only; rows are never updated.
type ActivityLogRepository interface {
	Log(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]entity.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Log(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]entity.ActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&entity.ActivityLog{}).Order("created_at DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var logs []entity.ActivityLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
