package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotTeamMember          = errors.New("user is not a member of the team")
	ErrTaskNotFound           = errors.New("task not found")
	ErrNotTaskCreator         = errors.New("only the task creator can perform this action")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to access this task")
	ErrTeamChangeDenied       = errors.New("only the task creator can move a task between teams")
	ErrTitleRequired          = errors.New("title is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	teamRepo  repository.TeamRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		teamRepo:  teamRepo,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID        string
	TeamID        *string
	AssignedToMe  bool
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	SortByDueDate bool
	Offset        int
	Limit         int
}

// ListTasks returns the user's personal tasks and the tasks of their teams
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:        input.UserID,
		Status:        input.Status,
		Priority:      input.Priority,
		SortByDueDate: input.SortByDueDate,
		Offset:        input.Offset,
		Limit:         input.Limit,
	}

	if input.TeamID != nil {
		if err := s.ensureTeamMember(ctx, *input.TeamID, input.UserID); err != nil {
			return nil, 0, err
		}
		filter.OnlyTeamID = input.TeamID
	} else {
		teamIDs, err := s.memberTeamIDs(ctx, input.UserID)
		if err != nil {
			return nil, 0, err
		}
		filter.TeamIDs = teamIDs
	}

	if input.AssignedToMe {
		filter.AssignedUserID = &input.UserID
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task by id
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CheckAccess verifies that a user may see and edit a task: the creator of a
// personal task, or any member of the task's team.
func (s *TaskService) CheckAccess(ctx context.Context, task *models.Task, userID string) error {
	if task.IsPersonal() {
		if task.CreatorID != userID {
			return ErrTaskPermissionDenied
		}
		return nil
	}

	if err := s.ensureTeamMember(ctx, *task.TeamID, userID); err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return ErrTaskPermissionDenied
		}
		return err
	}
	return nil
}

// SaveTask persists a canonical payload. A payload without an id creates a new
// task owned by actorID; otherwise the stored task is overwritten without any
// version check, so the last write wins. Only the creator may change which
// team a task belongs to.
func (s *TaskService) SaveTask(ctx context.Context, payload TaskPayload, actorID string) (*models.Task, error) {
	if payload.TeamID != nil {
		if err := s.ensureTeamMember(ctx, *payload.TeamID, actorID); err != nil {
			return nil, err
		}
	}

	if payload.ID == nil {
		task := &models.Task{CreatorID: actorID}
		ApplyPayload(task, payload)

		if err := s.taskRepo.Create(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		return task, nil
	}

	task, err := s.GetTask(ctx, *payload.ID)
	if err != nil {
		return nil, err
	}
	if err := s.CheckAccess(ctx, task, actorID); err != nil {
		return nil, err
	}
	if !sameTeam(task.TeamID, payload.TeamID) && task.CreatorID != actorID {
		return nil, ErrTeamChangeDenied
	}

	ApplyPayload(task, payload)
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateStatus moves a task to another status
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, actorID string, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.CheckAccess(ctx, task, actorID); err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task if the actor is the creator
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if task.CreatorID != actorID {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasks asks the AI service for task drafts extracted from free text.
// Drafts are returned as form values and are not saved.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]TaskFormValues, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	valid := make([]TaskFormValues, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		valid = append(valid, clearInvalidDraftFields(d.FormValues()))
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

// clearInvalidDraftFields blanks each field the editor would reject, leaving
// the valid ones as drafted.
func clearInvalidDraftFields(values TaskFormValues) TaskFormValues {
	for {
		_, err := BuildTaskPayload(values, nil, nil)
		switch {
		case errors.Is(err, ErrInvalidPriority) && values.Priority != "":
			values.Priority = ""
		case errors.Is(err, ErrInvalidDueDate) && values.DueDate != "":
			values.DueDate = ""
		default:
			return values
		}
	}
}

func sameTeam(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// memberTeamIDs returns the ids of the teams the user belongs to
func (s *TaskService) memberTeamIDs(ctx context.Context, userID string) ([]string, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team memberships: %w", err)
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}
	return ids, nil
}

// ensureTeamMember verifies that a user belongs to a team
func (s *TaskService) ensureTeamMember(ctx context.Context, teamID, userID string) error {
	_, err := s.teamRepo.FindMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotTeamMember
		}
		return fmt.Errorf("failed to verify team membership: %w", err)
	}
	return nil
}
