package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/team-task-api/internal/dates"
	"github.com/yukikurage/team-task-api/internal/models"
)

var (
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// TaskFormValues are the raw values of the task editor form.
type TaskFormValues struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	DueDate         string `json:"due_date"`
	DueTime         string `json:"due_time"`
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderTime    string `json:"reminder_time"`
	Progress        string `json:"progress"`
	Tags            string `json:"tags"`
	AssignedTo      string `json:"assigned_to"`
	TeamID          string `json:"team_id"`
}

// TaskPayload is the canonical, storage-ready shape of an edited task.
// ID is nil for tasks that have not been created yet.
type TaskPayload struct {
	ID           *string
	Title        string
	Description  string
	Priority     models.TaskPriority
	Status       models.TaskStatus
	DueDate      *time.Time
	DueTime      *string
	ReminderSet  bool
	ReminderTime *string
	Progress     *int
	AssignedTo   *models.Assignee
	Tags         []string
	TeamID       *string
}

// AssigneeResolution is the outcome of looking an assignee id up in the
// candidate members. Found is false when the id did not match anyone.
type AssigneeResolution struct {
	Requested string
	Found     bool
	Assignee  *models.Assignee
}

// BuildTaskPayload turns raw form values into a canonical payload. existing is
// the task being edited, or nil when creating. members is the candidate list
// for assignment, already resolved by the caller.
func BuildTaskPayload(values TaskFormValues, existing *models.Task, members []Member) (TaskPayload, error) {
	title := strings.TrimSpace(values.Title)
	if title == "" {
		return TaskPayload{}, ErrTitleRequired
	}

	priority := models.TaskPriority(strings.TrimSpace(values.Priority))
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return TaskPayload{}, fmt.Errorf("%w: %q", ErrInvalidPriority, values.Priority)
	}

	status := models.TaskStatus(strings.TrimSpace(values.Status))
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.IsValid() {
		return TaskPayload{}, fmt.Errorf("%w: %q", ErrInvalidStatus, values.Status)
	}

	dueDate, err := dates.FromStorageDate(&values.DueDate)
	if err != nil {
		return TaskPayload{}, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
	}

	dueTime, err := optionalClock(values.DueTime)
	if err != nil {
		return TaskPayload{}, err
	}

	payload := TaskPayload{
		Title:       title,
		Description: values.Description,
		Priority:    priority,
		Status:      status,
		DueDate:     dueDate,
		DueTime:     dueTime,
		Tags:        SplitTags(values.Tags),
		Progress:    ParseProgress(values.Progress),
		ReminderSet: values.ReminderEnabled,
	}

	if teamID := strings.TrimSpace(values.TeamID); teamID != "" {
		payload.TeamID = &teamID
	}

	// An id that matches no candidate leaves the task unassigned.
	if assignee := strings.TrimSpace(values.AssignedTo); assignee != "" {
		payload.AssignedTo = ResolveAssignee(assignee, members).Assignee
	}

	// A disabled reminder never keeps a stale time.
	if values.ReminderEnabled {
		payload.ReminderTime, err = optionalClock(values.ReminderTime)
		if err != nil {
			return TaskPayload{}, err
		}
	}

	if existing != nil {
		id := existing.ID
		payload.ID = &id
	}

	return payload, nil
}

// SplitTags splits comma separated tags, trimming each and dropping empty ones.
// It returns nil rather than an empty slice when nothing is left.
func SplitTags(raw string) []string {
	var tags []string
	for _, piece := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResolveAssignee looks id up among members and builds the assignment snapshot.
func ResolveAssignee(id string, members []Member) AssigneeResolution {
	res := AssigneeResolution{Requested: id}
	for _, m := range members {
		if m.UserID != id {
			continue
		}
		name := m.Name()
		res.Found = true
		res.Assignee = &models.Assignee{
			ID:       m.UserID,
			Name:     name,
			Initials: Initials(name),
			Avatar:   m.AvatarURL,
		}
		return res
	}
	return res
}

// Initials is the upper-cased first two characters of name.
func Initials(name string) string {
	if utf8.RuneCountInString(name) <= 2 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string([]rune(name)[:2]))
}

// ParseProgress parses a base-10 integer. Anything else means no progress and yields nil.
func ParseProgress(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

func optionalClock(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	clock, err := dates.ParseClock(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeOfDay, err)
	}
	return &clock, nil
}

// ApplyPayload copies the payload onto a task row, converting dates to their
// storage form. Creator and timestamps are left untouched.
func ApplyPayload(task *models.Task, payload TaskPayload) {
	if payload.ID != nil {
		task.ID = *payload.ID
	}
	task.Title = payload.Title
	task.Description = payload.Description
	task.Priority = payload.Priority
	task.Status = payload.Status
	task.DueDate = nil
	if payload.DueDate != nil {
		d := dates.ToStorageDate(*payload.DueDate)
		task.DueDate = &d
	}
	task.DueTime = payload.DueTime
	task.ReminderSet = payload.ReminderSet
	task.ReminderTime = payload.ReminderTime
	task.Progress = payload.Progress
	task.AssignedTo = payload.AssignedTo
	task.Tags = payload.Tags
	task.TeamID = payload.TeamID
}
