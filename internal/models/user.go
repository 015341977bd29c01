package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site-level roles. Timeline-level roles live on TimelineMember.
const (
	SiteRoleUser  = "user"
	SiteRoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string         `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	Bio       string         `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string         `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
