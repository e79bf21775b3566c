package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// SettingsDTO represents the profile and notification settings of the current user
type SettingsDTO struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	AvatarURL          *string `json:"avatar_url"`
	EmailNotifications bool    `json:"email_notifications"`
	NotificationEmail  *string `json:"notification_email"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	DueDate      *string             `json:"due_date"`
	DueTime      *string             `json:"due_time"`
	ReminderSet  bool                `json:"reminder_set"`
	ReminderTime *string             `json:"reminder_time"`
	Progress     *int                `json:"progress"`
	AssignedTo   *models.Assignee    `json:"assigned_to"`
	Tags         []string            `json:"tags"`
	TeamID       *string             `json:"team_id"`
	CreatorID    string              `json:"creator_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GeneratedTasksResponse holds AI drafts in the shape of the task editor form
type GeneratedTasksResponse struct {
	Tasks []services.TaskFormValues `json:"tasks"`
}

// Conversion functions

// ToUserDTO converts a User and their profile to UserDTO. profile may be nil.
func ToUserDTO(user models.User, profile *models.Profile) UserDTO {
	dto := UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
	if profile != nil {
		dto.FirstName = profile.FirstName
		dto.LastName = profile.LastName
		dto.AvatarURL = profile.AvatarURL
	}
	return dto
}

// ToSettingsDTO converts a Profile to SettingsDTO
func ToSettingsDTO(profile models.Profile) SettingsDTO {
	return SettingsDTO{
		FirstName:          profile.FirstName,
		LastName:           profile.LastName,
		AvatarURL:          profile.AvatarURL,
		EmailNotifications: profile.EmailNotifications,
		NotificationEmail:  profile.NotificationEmail,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       task.Status,
		DueDate:      task.DueDate,
		DueTime:      task.DueTime,
		ReminderSet:  task.ReminderSet,
		ReminderTime: task.ReminderTime,
		Progress:     task.Progress,
		AssignedTo:   task.AssignedTo,
		Tags:         task.Tags,
		TeamID:       task.TeamID,
		CreatorID:    task.CreatorID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
