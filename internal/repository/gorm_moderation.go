package repository

import (
	"context"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormModeration struct{ db *gorm.DB }

func (r *gormModeration) GetState(ctx context.Context, userID uuid.UUID) (*models.UserModerationState, error) {
	var s models.UserModerationState
	if err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormModeration) UpsertState(ctx context.Context, s *models.UserModerationState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

func (r *gormModeration) AddBlocklistEntry(ctx context.Context, e *models.UsernameBlocklistEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"active": true,
			}),
		}).
		Create(e).Error
}

func (r *gormModeration) IsBlocklisted(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UsernameBlocklistEntry{}).
		Where("username = ? AND active = ?", username, true).
		Count(&count).Error
	return count > 0, err
}
