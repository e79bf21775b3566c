package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile holds the public and notification settings of a user. Its ID is the user's ID.
type Profile struct {
	ID                 string    `gorm:"type:varchar(36);primarykey" json:"id"`
	FirstName          *string   `gorm:"type:varchar(100)" json:"first_name"`
	LastName           *string   `gorm:"type:varchar(100)" json:"last_name"`
	AvatarURL          *string   `gorm:"type:varchar(512)" json:"avatar_url"`
	EmailNotifications bool      `gorm:"not null;default:false" json:"email_notifications"`
	NotificationEmail  *string   `gorm:"type:varchar(255)" json:"notification_email"`
	UpdatedAt          time.Time `json:"updated_at"`
}
