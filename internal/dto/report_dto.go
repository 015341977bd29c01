package dto

import (
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
)

type SubmitPostReportRequest struct {
	EventID  uuid.UUID `json:"event_id"`
	Reason   string    `json:"reason"`
	Category string    `json:"category,omitempty"`
}

type SubmitUserReportRequest struct {
	ReportedUserID uuid.UUID  `json:"reported_user_id"`
	TimelineID     *uuid.UUID `json:"timeline_id,omitempty"`
	Reason         string     `json:"reason"`
	Category       string     `json:"category,omitempty"`
}

type SubmitReportResponse struct {
	ReportID   uuid.UUID `json:"report_id"`
	ReportType string    `json:"report_type"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

type ListReportsResponse struct {
	Items    []models.ReportTicket `json:"items"`
	Total    int64                 `json:"total"`
	Counts   map[string]int64      `json:"counts"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

type AcceptReportResponse struct {
	ReportID   uuid.UUID `json:"report_id"`
	AssignedTo uuid.UUID `json:"assigned_to"`
	NewStatus  string    `json:"new_status"`
}

type EscalateReportRequest struct {
	EscalationType string `json:"escalation_type"`
	Summary        string `json:"summary,omitempty"`
}

type EscalateReportResponse struct {
	ReportID       uuid.UUID `json:"report_id"`
	Status         string    `json:"status"`
	EscalationType string    `json:"escalation_type"`
	EscalatedAt    time.Time `json:"escalated_at"`
}

type ResolveReportRequest struct {
	Action  string `json:"action"`
	Verdict string `json:"verdict"`

	// Post actions.
	LockEdit bool `json:"lock_edit,omitempty"`

	// User actions.
	RestrictionUntil     *time.Time `json:"restriction_until,omitempty"`
	SuspendType          string     `json:"suspend_type,omitempty"`
	SuspendUntil         *time.Time `json:"suspend_until,omitempty"`
	BlockCurrentUsername bool       `json:"block_current_username,omitempty"`
}

type ResolvePostResponse struct {
	ReportID           uuid.UUID   `json:"report_id"`
	Action             string      `json:"action"`
	NewStatus          string      `json:"new_status"`
	DeletedEvent       bool        `json:"deleted_event,omitempty"`
	MediaDeleted       *bool       `json:"media_deleted,omitempty"`
	EditLocked         bool        `json:"edit_locked,omitempty"`
	RemovedTimelineIDs []uuid.UUID `json:"removed_timeline_ids,omitempty"`
}

type ResolveUserResponse struct {
	ReportID         uuid.UUID                   `json:"report_id"`
	Action           string                      `json:"action"`
	NewStatus        string                      `json:"new_status"`
	ModerationUpdate *models.UserModerationState `json:"moderation_update"`
	UsernameBlocked  bool                        `json:"username_blocked"`
}
