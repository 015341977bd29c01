// Package repository defines the single persistence interface the core
// depends on, with one GORM-backed implementation. Keeping every access path
// behind Store avoids drift between raw-query and ORM variants of the same
// lookup.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Store aggregates all repositories. Transaction yields a Store whose
// repositories operate inside a single database transaction.
type Store interface {
	Users() UserRepository
	Timelines() TimelineRepository
	Members() MembershipRepository
	Events() EventRepository
	Placements() PlacementRepository
	Reports() ReportRepository
	Moderation() ModerationRepository
	Passports() PassportRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type TimelineRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Timeline, error)
	ListCreatedBy(ctx context.Context, userID uuid.UUID) ([]models.Timeline, error)
	ListAll(ctx context.Context) ([]models.Timeline, error)
}

type MembershipRepository interface {
	Get(ctx context.Context, timelineID, userID uuid.UUID) (*models.TimelineMember, error)
	List(ctx context.Context, timelineID uuid.UUID) ([]models.TimelineMember, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.TimelineMember, error)
	Create(ctx context.Context, m *models.TimelineMember) error
	Update(ctx context.Context, m *models.TimelineMember) error
	Delete(ctx context.Context, timelineID, userID uuid.UUID) error
	CountAdmins(ctx context.Context, timelineID uuid.UUID) (int64, error)
}

type EventRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	SetEditLocked(ctx context.Context, id uuid.UUID, locked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlacementRepository covers the bookkeeping behind the placement index:
// the owning timeline, explicit share associations, tag links and removal
// markers for an event.
type PlacementRepository interface {
	OwningTimeline(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	AssociatedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	RemovedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	TagNames(ctx context.Context, eventID uuid.UUID) ([]string, error)
	// TimelineIDByName resolves a tag name to a timeline, case-insensitively.
	// A missing match is (Nil, false, nil), never an error.
	TimelineIDByName(ctx context.Context, name string) (uuid.UUID, bool, error)
	AddRemoval(ctx context.Context, r *models.TimelineRemoval) error
	DeleteAssociation(ctx context.Context, eventID, timelineID uuid.UUID) error
	// DeleteAllForEvent removes associations, tag links and removal markers.
	DeleteAllForEvent(ctx context.Context, eventID uuid.UUID) error
}

// ReportFilter scopes a ticket listing. A nil TimelineID with SiteQueue set
// selects the site-level escalation queue union.
type ReportFilter struct {
	TimelineID *uuid.UUID
	SiteQueue  bool
	Status     string
	ReportType string
	Page       int
	PageSize   int
}

type ReportRepository interface {
	Create(ctx context.Context, t *models.ReportTicket) error
	Get(ctx context.Context, id uuid.UUID) (*models.ReportTicket, error)
	Update(ctx context.Context, t *models.ReportTicket) error
	// AssignIfUnassigned conditionally moves an unassigned pending/escalated
	// ticket to reviewing under the given moderator. Returns false when the
	// conditional update matched no row (already assigned or wrong state).
	AssignIfUnassigned(ctx context.Context, id, moderator uuid.UUID, now time.Time) (bool, error)
	List(ctx context.Context, f ReportFilter) ([]models.ReportTicket, int64, error)
	// CountByStatus returns pending/reviewing/resolved counts for the scope,
	// ignoring the filter's own status so dashboards always see all badges.
	CountByStatus(ctx context.Context, f ReportFilter) (map[string]int64, error)
}

type ModerationRepository interface {
	GetState(ctx context.Context, userID uuid.UUID) (*models.UserModerationState, error)
	UpsertState(ctx context.Context, s *models.UserModerationState) error
	AddBlocklistEntry(ctx context.Context, e *models.UsernameBlocklistEntry) error
	IsBlocklisted(ctx context.Context, username string) (bool, error)
}

type PassportRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPassport, error)
	Upsert(ctx context.Context, p *models.UserPassport) error
}
