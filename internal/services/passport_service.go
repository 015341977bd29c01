package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// PassportService maintains the per-user membership mirror ("passport")
// that clients read on login from any device. It is rebuilt from membership
// rows after every membership-affecting mutation and mirrored into redis;
// the mirror is advisory and its unavailability never fails core operations.
type PassportService struct {
	store  repository.Store
	rdb    *redis.Client
	isRoot access.RootPolicy
	ttl    time.Duration
	now    func() time.Time
}

func NewPassportService(store repository.Store, rdb *redis.Client, isRoot access.RootPolicy, ttl time.Duration) *PassportService {
	return &PassportService{store: store, rdb: rdb, isRoot: isRoot, ttl: ttl, now: time.Now}
}

func passportKey(userID uuid.UUID) string {
	return "passport:" + userID.String()
}

// Get returns the stored passport, preferring the redis mirror. A missing
// passport row is materialized empty.
func (s *PassportService) Get(ctx context.Context, userID uuid.UUID) (*models.UserPassport, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, passportKey(userID)).Bytes(); err == nil {
			var p models.UserPassport
			if json.Unmarshal(raw, &p) == nil {
				return &p, nil
			}
		}
	}

	p, err := s.store.Passports().Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		p = &models.UserPassport{
			UserID:      userID,
			Memberships: datatypes.JSON([]byte("[]")),
			LastUpdated: s.now(),
		}
		if err := s.store.Passports().Upsert(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Sync rebuilds the passport from membership state: active rows, timelines
// the user created (implicit admin), and, for the root identity, every
// timeline on the site.
func (s *PassportService) Sync(ctx context.Context, userID uuid.UUID) ([]models.PassportMembership, error) {
	memberships := make([]models.PassportMembership, 0, 8)
	covered := make(map[uuid.UUID]struct{})

	rows, err := s.store.Members().ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		joined := row.JoinedAt
		memberships = append(memberships, models.PassportMembership{
			TimelineID:   row.TimelineID,
			TimelineName: row.Timeline.Name,
			Role:         row.Role,
			IsActive:     row.IsActiveMember,
			Visibility:   row.Timeline.Visibility,
			TimelineType: row.Timeline.TimelineType,
			JoinedAt:     &joined,
		})
		covered[row.TimelineID] = struct{}{}
	}

	created, err := s.store.Timelines().ListCreatedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range created {
		if _, ok := covered[t.ID]; ok {
			continue
		}
		createdAt := t.CreatedAt
		memberships = append(memberships, models.PassportMembership{
			TimelineID:   t.ID,
			TimelineName: t.Name,
			Role:         access.RoleAdmin.String(),
			IsActive:     true,
			Visibility:   t.Visibility,
			TimelineType: t.TimelineType,
			JoinedAt:     &createdAt,
			IsCreator:    true,
		})
		covered[t.ID] = struct{}{}
	}

	if s.isRoot(userID) {
		all, err := s.store.Timelines().ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range all {
			if _, ok := covered[t.ID]; ok {
				continue
			}
			createdAt := t.CreatedAt
			memberships = append(memberships, models.PassportMembership{
				TimelineID:   t.ID,
				TimelineName: t.Name,
				Role:         access.RoleSiteOwner.String(),
				IsActive:     true,
				Visibility:   t.Visibility,
				TimelineType: t.TimelineType,
				JoinedAt:     &createdAt,
				IsSiteOwner:  true,
			})
		}
	}

	blob, err := json.Marshal(memberships)
	if err != nil {
		return nil, err
	}
	passport := &models.UserPassport{
		UserID:      userID,
		Memberships: datatypes.JSON(blob),
		LastUpdated: s.now(),
	}
	if err := s.store.Passports().Upsert(ctx, passport); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(passport); err == nil {
			if err := s.rdb.Set(ctx, passportKey(userID), raw, s.ttl).Err(); err != nil {
				slog.Warn("passport cache write failed", "user_id", userID.String(), "error", err)
			}
		}
	}
	return memberships, nil
}

// Notify schedules a passport rebuild after a membership-affecting mutation.
// It is fire-and-forget: the caller's operation has already committed and
// must not fail because the mirror is behind.
func (s *PassportService) Notify(userID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.Sync(ctx, userID); err != nil {
			slog.Warn("passport sync failed", "user_id", userID.String(), "error", err)
		}
	}()
}
