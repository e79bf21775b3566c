package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/dates"
	"github.com/yukikurage/team-task-api/internal/models"
)

var reminderDispatches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminder_dispatch_total",
		Help: "Reminder scheduling outcomes",
	},
	[]string{"result"},
)

// FunctionInvoker calls a named remote function with a JSON payload.
type FunctionInvoker interface {
	Invoke(ctx context.Context, name string, payload any) error
}

// NotificationSettings are the email preferences of the user saving a task.
type NotificationSettings struct {
	EmailNotifications bool
	NotificationEmail  string
}

// SettingsFromProfile extracts notification settings; a nil profile disables email.
func SettingsFromProfile(p *models.Profile) NotificationSettings {
	if p == nil {
		return NotificationSettings{}
	}
	settings := NotificationSettings{EmailNotifications: p.EmailNotifications}
	if p.NotificationEmail != nil {
		settings.NotificationEmail = strings.TrimSpace(*p.NotificationEmail)
	}
	return settings
}

// ReminderPayload is the body sent to the send-reminder function.
type ReminderPayload struct {
	TaskID    string  `json:"taskId"`
	Email     string  `json:"email"`
	TaskTitle string  `json:"taskTitle"`
	DueDate   *string `json:"dueDate"`
	DueTime   *string `json:"dueTime"`
}

// ReminderService decides whether a saved task needs a reminder and dispatches it.
type ReminderService struct {
	invoker FunctionInvoker
	log     *logrus.Logger
}

func NewReminderService(invoker FunctionInvoker, log *logrus.Logger) *ReminderService {
	return &ReminderService{invoker: invoker, log: log}
}

// ScheduleReminder is a no-op unless the task has its reminder set and the
// user has email notifications enabled with an address. Invocation failures
// are returned to the caller.
func (s *ReminderService) ScheduleReminder(ctx context.Context, task *models.Task, settings NotificationSettings) error {
	if task == nil || !task.ReminderSet || !settings.EmailNotifications || settings.NotificationEmail == "" {
		reminderDispatches.WithLabelValues("skipped").Inc()
		return nil
	}

	payload, err := NewReminderPayload(task, settings.NotificationEmail)
	if err != nil {
		reminderDispatches.WithLabelValues("failed").Inc()
		return err
	}

	if err := s.invoker.Invoke(ctx, constants.FunctionSendReminder, payload); err != nil {
		reminderDispatches.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to schedule reminder for task %s: %w", task.ID, err)
	}

	reminderDispatches.WithLabelValues("sent").Inc()
	s.log.WithField("task_id", task.ID).Info("reminder scheduled")
	return nil
}

// NewReminderPayload builds the function payload, rendering the due date in long form.
func NewReminderPayload(task *models.Task, email string) (ReminderPayload, error) {
	payload := ReminderPayload{
		TaskID:    task.ID,
		Email:     email,
		TaskTitle: task.Title,
		DueTime:   task.DueTime,
	}

	due, err := dates.FromStorageDate(task.DueDate)
	if err != nil {
		return ReminderPayload{}, fmt.Errorf("task %s: %w", task.ID, err)
	}
	if due != nil {
		long := dates.FormatLongDate(*due)
		payload.DueDate = &long
	}

	return payload, nil
}
