package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusComplete   TaskStatus = "complete"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusComplete:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	default:
		return false
	}
}

// Assignee is a snapshot of a team member taken when the task was assigned.
// It is never refreshed from the membership it was copied from.
type Assignee struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Initials string  `json:"initials"`
	Avatar   *string `json:"avatar,omitempty"`
}

type Task struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Priority     TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate      *string        `gorm:"type:varchar(10)" json:"due_date"`
	DueTime      *string        `gorm:"type:varchar(8)" json:"due_time"`
	ReminderSet  bool           `gorm:"not null;default:false" json:"reminder_set"`
	ReminderTime *string        `gorm:"type:varchar(8)" json:"reminder_time"`
	Progress     *int           `json:"progress"`
	AssignedTo   *Assignee      `gorm:"type:text;serializer:json" json:"assigned_to,omitempty"`
	Tags         []string       `gorm:"type:text;serializer:json" json:"tags"`
	TeamID       *string        `gorm:"type:varchar(36);index" json:"team_id"`
	CreatorID    string         `gorm:"type:varchar(36);not null;index" json:"creator_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsPersonal reports whether the task is not scoped to any team.
func (t Task) IsPersonal() bool {
	return t.TeamID == nil || *t.TeamID == ""
}
