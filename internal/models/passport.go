package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserPassport mirrors a user's timeline memberships as a single JSON blob
// for fast client reads across devices. It is rebuilt from membership rows,
// never the other way around.
type UserPassport struct {
	UserID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Memberships datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"memberships"`
	LastUpdated time.Time      `json:"last_updated"`
}

func (UserPassport) TableName() string {
	return "user_passport"
}

// PassportMembership is one entry in the memberships JSON array.
type PassportMembership struct {
	TimelineID   uuid.UUID `json:"timeline_id"`
	TimelineName string    `json:"timeline_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active_member"`
	Visibility   string    `json:"visibility"`
	TimelineType string    `json:"timeline_type"`
	JoinedAt     *time.Time `json:"joined_at,omitempty"`
	IsCreator    bool      `json:"is_creator,omitempty"`
	IsSiteOwner  bool      `json:"is_site_owner,omitempty"`
}
