package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/logger"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/utils"
)

type TaskHandler struct {
	taskService     *services.TaskService
	teamService     *services.TeamService
	authService     *services.AuthService
	reminderService *services.ReminderService
	log             *logrus.Logger
}

func NewTaskHandler(
	taskService *services.TaskService,
	teamService *services.TeamService,
	authService *services.AuthService,
	reminderService *services.ReminderService,
	log *logrus.Logger,
) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		teamService:     teamService,
		authService:     authService,
		reminderService: reminderService,
		log:             log,
	}
}

// ListTasks returns the user's personal tasks and the tasks of their teams.
// Can filter by team_id, status, priority and assigned_to=me.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:        userID,
		AssignedToMe:  c.Query("assigned_to") == "me",
		SortByDueDate: c.Query("sort") == "due_date",
		Offset:        params.Offset,
		Limit:         params.Limit,
	}

	if teamID := strings.TrimSpace(c.Query("team_id")); teamID != "" {
		input.TeamID = &teamID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.IsValid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !priority.IsValid() {
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
		input.Priority = &priority
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task from the editor form
func (h *TaskHandler) CreateTask(c *gin.Context) {
	h.submitTask(c, nil, http.StatusCreated)
}

// UpdateTask overwrites the task loaded by RequireTaskAccess with the editor form
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	h.submitTask(c, task, http.StatusOK)
}

// submitTask runs an edit submission: build the canonical payload, persist it,
// then schedule the reminder. A reminder failure is reported after the save
// has already happened.
func (h *TaskHandler) submitTask(c *gin.Context, existing *models.Task, successStatus int) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var values services.TaskFormValues
	if err := c.ShouldBindJSON(&values); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	// Candidates are read at submission time and may be stale by the time the
	// task is written.
	var members []services.Member
	if teamID := strings.TrimSpace(values.TeamID); teamID != "" {
		members = h.teamService.ListMembers(ctx, teamID)
	}

	payload, err := services.BuildTaskPayload(values, existing, members)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	saved, err := h.taskService.SaveTask(ctx, payload, userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	if err := h.scheduleReminder(ctx, saved, userID); err != nil {
		logger.WithRequestID(h.log, middleware.GetRequestID(c)).
			WithError(err).
			WithField("task_id", saved.ID).
			Error("reminder scheduling failed")
		apierrors.ReminderFailed(c, saved.ID)
		return
	}

	c.JSON(successStatus, dto.ToTaskDTO(*saved))
}

func (h *TaskHandler) scheduleReminder(ctx context.Context, task *models.Task, userID string) error {
	if !task.ReminderSet {
		return nil
	}

	profile, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	return h.reminderService.ScheduleReminder(ctx, task, services.SettingsFromProfile(profile))
}

// UpdateTaskStatus moves a task to another status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateStatus(c.Request.Context(), task.ID, userID, req.Status)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID, userID); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks generates task drafts from text using AI. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GeneratedTasksResponse{Tasks: drafts})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrInvalidTimeOfDay):
		apierrors.ValidationFailed(c, err.Error(), nil)
	case errors.Is(err, services.ErrNotTeamMember):
		apierrors.NotMember(c)
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotTaskCreator):
		apierrors.Forbidden(c, "Only the creator can delete this task")
	case errors.Is(err, services.ErrTeamChangeDenied):
		apierrors.Forbidden(c, "Only the creator can move this task to another team")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.ValidationFailed(c, err.Error(), nil)
	default:
		logger.WithRequestID(h.log, middleware.GetRequestID(c)).WithError(err).Error("task request failed")
		apierrors.InternalError(c, "")
	}
}
