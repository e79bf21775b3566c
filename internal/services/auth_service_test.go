package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/repository"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Email: " Kim@Example.com ", Password: "password123", FirstName: "Kim"})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.NotificationEmail)
	assert.Equal(t, "kim@example.com", *profile.NotificationEmail)
	assert.False(t, profile.EmailNotifications)

	_, err = svc.Signup(ctx, SignupInput{Email: "kim@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Signup(ctx, SignupInput{Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	logged, err := svc.Login(ctx, LoginInput{Email: "KIM@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "kim@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ProfileWithoutRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	user := createTestUser(t, db, "bare@example.com", "", "")

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Nil(t, profile.FirstName)

	enabled := true
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FirstName:          strPtr("Bea"),
		EmailNotifications: &enabled,
		NotificationEmail:  strPtr("bea@example.com"),
	})
	require.NoError(t, err)
	assert.True(t, updated.EmailNotifications)

	stored, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirstName)
	assert.Equal(t, "Bea", *stored.FirstName)
	assert.Equal(t, NotificationSettings{EmailNotifications: true, NotificationEmail: "bea@example.com"}, SettingsFromProfile(stored))

	cleared, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{NotificationEmail: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, cleared.NotificationEmail)
}
