package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
)

func reminderTask() *models.Task {
	return &models.Task{
		ID:          "task-1",
		Title:       "Submit expenses",
		DueDate:     strPtr("2024-03-09"),
		DueTime:     strPtr("17:00"),
		ReminderSet: true,
	}
}

func TestScheduleReminder_NoOp(t *testing.T) {
	enabled := NotificationSettings{EmailNotifications: true, NotificationEmail: "a@example.com"}

	unset := reminderTask()
	unset.ReminderSet = false

	tests := []struct {
		name     string
		task     *models.Task
		settings NotificationSettings
	}{
		{name: "reminder not set", task: unset, settings: enabled},
		{name: "notifications disabled", task: reminderTask(), settings: NotificationSettings{NotificationEmail: "a@example.com"}},
		{name: "no address", task: reminderTask(), settings: NotificationSettings{EmailNotifications: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &fakeInvoker{}
			svc := NewReminderService(invoker, quietLogger())

			err := svc.ScheduleReminder(context.Background(), tt.task, tt.settings)
			require.NoError(t, err)
			assert.Empty(t, invoker.calls)
		})
	}
}

func TestScheduleReminder_Sends(t *testing.T) {
	invoker := &fakeInvoker{}
	svc := NewReminderService(invoker, quietLogger())

	err := svc.ScheduleReminder(context.Background(), reminderTask(), NotificationSettings{
		EmailNotifications: true,
		NotificationEmail:  "a@example.com",
	})
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)

	call := invoker.calls[0]
	assert.Equal(t, constants.FunctionSendReminder, call.name)

	payload, ok := call.payload.(ReminderPayload)
	require.True(t, ok)
	assert.Equal(t, "task-1", payload.TaskID)
	assert.Equal(t, "a@example.com", payload.Email)
	assert.Equal(t, "Submit expenses", payload.TaskTitle)
	require.NotNil(t, payload.DueDate)
	assert.Equal(t, "March 9, 2024", *payload.DueDate)
	require.NotNil(t, payload.DueTime)
	assert.Equal(t, "17:00", *payload.DueTime)
}

func TestScheduleReminder_PropagatesFailure(t *testing.T) {
	boom := errors.New("function unavailable")
	invoker := &fakeInvoker{err: boom}
	svc := NewReminderService(invoker, quietLogger())

	err := svc.ScheduleReminder(context.Background(), reminderTask(), NotificationSettings{
		EmailNotifications: true,
		NotificationEmail:  "a@example.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "task-1")
	assert.Len(t, invoker.calls, 1)
}

func TestNewReminderPayload_NoDueDate(t *testing.T) {
	task := reminderTask()
	task.DueDate = nil
	task.DueTime = nil

	payload, err := NewReminderPayload(task, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, payload.DueDate)
	assert.Nil(t, payload.DueTime)
}

func TestSettingsFromProfile(t *testing.T) {
	assert.Equal(t, NotificationSettings{}, SettingsFromProfile(nil))

	got := SettingsFromProfile(&models.Profile{
		EmailNotifications: true,
		NotificationEmail:  strPtr("  me@example.com "),
	})
	assert.Equal(t, NotificationSettings{EmailNotifications: true, NotificationEmail: "me@example.com"}, got)
}
