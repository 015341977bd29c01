package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type gormStore struct {
	db            *gorm.DB
	timelineCache *gocache.Cache
}

// NewGormStore returns the GORM-backed Store. Timeline rows are served from
// a short-lived in-process cache because access checks fetch the timeline on
// every request.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{
		db:            db,
		timelineCache: gocache.New(time.Minute, 5*time.Minute),
	}
}

func (s *gormStore) Users() UserRepository            { return &gormUsers{db: s.db} }
func (s *gormStore) Timelines() TimelineRepository    { return &gormTimelines{db: s.db, cache: s.timelineCache} }
func (s *gormStore) Members() MembershipRepository    { return &gormMembers{db: s.db} }
func (s *gormStore) Events() EventRepository          { return &gormEvents{db: s.db} }
func (s *gormStore) Placements() PlacementRepository  { return &gormPlacements{db: s.db} }
func (s *gormStore) Reports() ReportRepository        { return &gormReports{db: s.db} }
func (s *gormStore) Moderation() ModerationRepository { return &gormModeration{db: s.db} }
func (s *gormStore) Passports() PassportRepository    { return &gormPassports{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, timelineCache: s.timelineCache})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

type gormTimelines struct {
	db    *gorm.DB
	cache *gocache.Cache
}

func (r *gormTimelines) Get(ctx context.Context, id uuid.UUID) (*models.Timeline, error) {
	if cached, ok := r.cache.Get(id.String()); ok {
		t := cached.(models.Timeline)
		return &t, nil
	}
	var t models.Timeline
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	r.cache.SetDefault(id.String(), t)
	return &t, nil
}

func (r *gormTimelines) ListCreatedBy(ctx context.Context, userID uuid.UUID) ([]models.Timeline, error) {
	var timelines []models.Timeline
	err := r.db.WithContext(ctx).Where("created_by = ?", userID).Find(&timelines).Error
	return timelines, err
}

func (r *gormTimelines) ListAll(ctx context.Context) ([]models.Timeline, error) {
	var timelines []models.Timeline
	err := r.db.WithContext(ctx).Find(&timelines).Error
	return timelines, err
}

type gormMembers struct{ db *gorm.DB }

func (r *gormMembers) Get(ctx context.Context, timelineID, userID uuid.UUID) (*models.TimelineMember, error) {
	var m models.TimelineMember
	err := r.db.WithContext(ctx).
		Where("timeline_id = ? AND user_id = ?", timelineID, userID).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *gormMembers) List(ctx context.Context, timelineID uuid.UUID) ([]models.TimelineMember, error) {
	var members []models.TimelineMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("timeline_id = ?", timelineID).
		Find(&members).Error
	return members, err
}

func (r *gormMembers) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.TimelineMember, error) {
	var members []models.TimelineMember
	err := r.db.WithContext(ctx).
		Preload("Timeline").
		Where("user_id = ? AND is_active_member = ?", userID, true).
		Find(&members).Error
	return members, err
}

func (r *gormMembers) Create(ctx context.Context, m *models.TimelineMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormMembers) Update(ctx context.Context, m *models.TimelineMember) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *gormMembers) Delete(ctx context.Context, timelineID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("timeline_id = ? AND user_id = ?", timelineID, userID).
		Delete(&models.TimelineMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormMembers) CountAdmins(ctx context.Context, timelineID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TimelineMember{}).
		Where("timeline_id = ? AND role = ? AND is_active_member = ?", timelineID, "admin", true).
		Count(&count).Error
	return count, err
}

type gormEvents struct{ db *gorm.DB }

func (r *gormEvents) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *gormEvents) SetEditLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Update("edit_locked", locked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormEvents) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}

type gormPassports struct{ db *gorm.DB }

func (r *gormPassports) Get(ctx context.Context, userID uuid.UUID) (*models.UserPassport, error) {
	var p models.UserPassport
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *gormPassports) Upsert(ctx context.Context, p *models.UserPassport) error {
	return r.db.WithContext(ctx).Save(p).Error
}
