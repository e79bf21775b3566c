package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	CreatedBy   string         `gorm:"type:varchar(36);not null" json:"created_by"`
	InviteCode  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type TeamRole string

const (
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

// TeamMember is a membership row. The name and avatar columns are a copy of the
// member's profile taken when they joined.
type TeamMember struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TeamID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_team_user" json:"team_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_team_user;index" json:"user_id"`
	Role      TeamRole  `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	FirstName *string   `gorm:"type:varchar(100)" json:"first_name"`
	LastName  *string   `gorm:"type:varchar(100)" json:"last_name"`
	AvatarURL *string   `gorm:"type:varchar(512)" json:"avatar_url"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
