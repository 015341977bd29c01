package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportTypePost     = "post"
	ReportTypeUser     = "user"
	ReportTypeTimeline = "timeline"

	ReportStatusPending   = "pending"
	ReportStatusReviewing = "reviewing"
	ReportStatusResolved  = "resolved"
	ReportStatusEscalated = "escalated"

	// Post-ticket resolution actions.
	ActionRemove    = "remove"
	ActionDelete    = "delete"
	ActionSafeguard = "safeguard"
	ActionEdit      = "edit"

	// User-ticket resolution actions.
	ActionRequireUsernameChange = "require_username_change"
	ActionRestrictUser          = "restrict_user"
	ActionSuspendUser           = "suspend_user"

	EscalationTypeEdit   = "edit"
	EscalationTypeDelete = "delete"
)

// ReportTicket tracks an abuse report through its lifecycle. Site-wide
// tickets carry uuid.Nil as TimelineID. Exactly one target reference is
// populated, matching ReportType.
type ReportTicket struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TimelineID uuid.UUID `gorm:"type:uuid;index" json:"timeline_id"`
	ReportType string    `gorm:"size:20;not null;index" json:"report_type"`

	EventID            *uuid.UUID `gorm:"type:uuid;index" json:"event_id,omitempty"`
	ReportedUserID     *uuid.UUID `gorm:"type:uuid;index" json:"reported_user_id,omitempty"`
	ReportedTimelineID *uuid.UUID `gorm:"type:uuid" json:"reported_timeline_id,omitempty"`

	// Nil reporter means the report was submitted anonymously.
	ReporterID *uuid.UUID `gorm:"type:uuid;index" json:"reporter_id,omitempty"`
	Reason     string     `gorm:"size:1000;not null" json:"reason"`

	Status     string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AssignedTo *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`
	Resolution string     `gorm:"size:50" json:"resolution,omitempty"`
	Verdict    string     `gorm:"size:1000" json:"verdict,omitempty"`

	EscalationType    string     `gorm:"size:20" json:"escalation_type,omitempty"`
	EscalationSummary string     `gorm:"size:1000" json:"escalation_summary,omitempty"`
	EscalatedBy       *uuid.UUID `gorm:"type:uuid" json:"escalated_by,omitempty"`
	EscalatedAt       *time.Time `json:"escalated_at,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// PostActionValid reports whether action is a post-ticket resolution action.
func PostActionValid(action string) bool {
	switch action {
	case ActionRemove, ActionDelete, ActionSafeguard, ActionEdit:
		return true
	}
	return false
}

// UserActionValid reports whether action is a user-ticket resolution action.
func UserActionValid(action string) bool {
	switch action {
	case ActionRequireUsernameChange, ActionRestrictUser, ActionSuspendUser:
		return true
	}
	return false
}
