package repository

import (
	"context"
	"errors"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormPlacements struct{ db *gorm.DB }

func (r *gormPlacements) OwningTimeline(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).Select("timeline_id").First(&e, "id = ?", eventID).Error; err != nil {
		return uuid.Nil, notFound(err)
	}
	return e.TimelineID, nil
}

func (r *gormPlacements) AssociatedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.EventTimelineAssociation{}).
		Where("event_id = ?", eventID).
		Pluck("timeline_id", &ids).Error
	return ids, err
}

func (r *gormPlacements) RemovedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.TimelineRemoval{}).
		Where("event_id = ?", eventID).
		Pluck("timeline_id", &ids).Error
	return ids, err
}

func (r *gormPlacements) TagNames(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.EventTag{}).
		Joins("JOIN tags ON tags.id = event_tags.tag_id").
		Where("event_tags.event_id = ?", eventID).
		Pluck("tags.name", &names).Error
	return names, err
}

func (r *gormPlacements) TimelineIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	var t models.Timeline
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return t.ID, true, nil
}

func (r *gormPlacements) AddRemoval(ctx context.Context, removal *models.TimelineRemoval) error {
	return r.db.WithContext(ctx).Create(removal).Error
}

func (r *gormPlacements) DeleteAssociation(ctx context.Context, eventID, timelineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND timeline_id = ?", eventID, timelineID).
		Delete(&models.EventTimelineAssociation{}).Error
}

func (r *gormPlacements) DeleteAllForEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.EventTimelineAssociation{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.EventTag{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.TimelineRemoval{}).Error
}
