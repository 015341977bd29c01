package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TimelineTypeHashtag   = "hashtag"
	TimelineTypeCommunity = "community"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Timeline struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description      string     `gorm:"type:text" json:"description"`
	TimelineType     string     `gorm:"size:20;default:'hashtag'" json:"timeline_type"`
	Visibility       string     `gorm:"size:20;default:'public'" json:"visibility"`
	CreatedBy        uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	PrivacyChangedAt *time.Time `json:"privacy_changed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TimelineMember holds one membership row per (timeline, user). The timeline
// creator and the site owner are members even without a row; the access
// resolver materializes those implicit memberships.
type TimelineMember struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TimelineID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_timeline_member" json:"timeline_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_timeline_member" json:"user_id"`
	Role           string     `gorm:"size:20;not null;default:'member'" json:"role"`
	IsActiveMember bool       `gorm:"default:true" json:"is_active_member"`
	IsBlocked      bool       `gorm:"default:false" json:"is_blocked"`
	BlockedAt      *time.Time `json:"blocked_at,omitempty"`
	BlockedReason  string     `gorm:"type:text" json:"blocked_reason,omitempty"`
	InvitedBy      *uuid.UUID `gorm:"type:uuid" json:"invited_by,omitempty"`
	JoinedAt       time.Time  `json:"joined_at"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	Timeline       Timeline   `gorm:"foreignKey:TimelineID" json:"-"`
}

func (TimelineMember) TableName() string {
	return "timeline_members"
}
