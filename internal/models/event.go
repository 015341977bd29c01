package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	Type        string    `gorm:"size:50;default:'remark'" json:"type"`
	URL         string    `gorm:"size:500" json:"url,omitempty"`
	MediaURL    string    `gorm:"size:500" json:"media_url,omitempty"`
	// MediaKey is the object key in the external media store, needed for
	// best-effort deletion on hard delete.
	MediaKey   string    `gorm:"size:500" json:"-"`
	MediaType  string    `gorm:"size:50" json:"media_type,omitempty"`
	TimelineID uuid.UUID `gorm:"type:uuid;not null;index" json:"timeline_id"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	// EditLocked is set by the safeguard/edit resolution actions and
	// consulted by the content-editing collaborator.
	EditLocked bool      `gorm:"default:false" json:"edit_locked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// EventTag joins events to tags.
type EventTag struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EventTimelineAssociation is an explicit share of an event into another
// timeline, keeping a pointer back to the timeline it was shared from.
type EventTimelineAssociation struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_timeline" json:"event_id"`
	TimelineID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_timeline" json:"timeline_id"`
	SourceTimelineID uuid.UUID `gorm:"type:uuid;not null" json:"source_timeline_id"`
	SharedBy         uuid.UUID `gorm:"type:uuid;not null" json:"shared_by"`
	SharedAt         time.Time `json:"shared_at"`
}

// TimelineRemoval marks an event as removed from a single timeline without
// touching its placements elsewhere. Created by the "remove" resolution
// action, cleared by "delete".
type TimelineRemoval struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_removal" json:"event_id"`
	TimelineID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_removal" json:"timeline_id"`
	RemovedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"removed_by"`
	ReportID   *uuid.UUID `gorm:"type:uuid" json:"report_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
