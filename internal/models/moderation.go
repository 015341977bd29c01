package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModerationState is the per-user restriction record, upserted on the
// first moderation action against a user.
type UserModerationState struct {
	UserID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	RequireUsernameChange bool       `gorm:"default:false" json:"require_username_change"`
	RestrictedUntil       *time.Time `json:"restricted_until,omitempty"`
	SuspendedPermanent    bool       `gorm:"default:false" json:"suspended_permanent"`
	SuspendedUntil        *time.Time `json:"suspended_until,omitempty"`
	Reason                string     `gorm:"size:1000" json:"reason,omitempty"`
	UpdatedBy             uuid.UUID  `gorm:"type:uuid" json:"updated_by"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Suspended reports whether the user is suspended at t.
func (s *UserModerationState) Suspended(t time.Time) bool {
	if s.SuspendedPermanent {
		return true
	}
	return s.SuspendedUntil != nil && s.SuspendedUntil.After(t)
}

// Restricted reports whether the user is time-restricted at t.
func (s *UserModerationState) Restricted(t time.Time) bool {
	return s.RestrictedUntil != nil && s.RestrictedUntil.After(t)
}

// UsernameBlocklistEntry stores a normalized (lower-cased, trimmed) username
// that may not be re-selected.
type UsernameBlocklistEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Reason    string    `gorm:"size:500" json:"reason,omitempty"`
	CreatedBy uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
