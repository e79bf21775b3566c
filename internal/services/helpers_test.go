package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db, mock
}

func createTestUser(t *testing.T, db *gorm.DB, email, first, last string) *models.User {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)

	if first != "" || last != "" {
		profile := &models.Profile{ID: user.ID, FirstName: strPtr(first), LastName: strPtr(last)}
		require.NoError(t, db.Create(profile).Error)
	}
	return user
}

func addTestMember(t *testing.T, db *gorm.DB, teamID, userID string, role models.TeamRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}).Error)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int { return &n }

type invocation struct {
	name    string
	payload any
}

type fakeInvoker struct {
	calls []invocation
	err   error
}

func (f *fakeInvoker) Invoke(_ context.Context, name string, payload any) error {
	f.calls = append(f.calls, invocation{name: name, payload: payload})
	return f.err
}
