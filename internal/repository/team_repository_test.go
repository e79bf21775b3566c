package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Team{}, &models.TeamMember{}, &models.Task{}))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestCreateWithCreator_RollsBackOnMemberFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `teams`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `team_members`").
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	team := &models.Team{Name: "Orphan", CreatedBy: "user-1", InviteCode: "abcd-efgh-ijkl"}
	member := &models.TeamMember{UserID: "user-1", Role: models.RoleAdmin, JoinedAt: time.Now()}

	err := repo.CreateWithCreator(context.Background(), team, member)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateTeamMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCreator_TeamInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `teams`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CreateWithCreator(context.Background(),
		&models.Team{Name: "x", CreatedBy: "u", InviteCode: "c"},
		&models.TeamMember{UserID: "u", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrCreateTeam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCreator_Commits(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := &models.Team{Name: "Infra", CreatedBy: "user-1", InviteCode: "1111-2222-3333"}
	member := &models.TeamMember{UserID: "user-1", Role: models.RoleAdmin, JoinedAt: time.Now()}

	require.NoError(t, repo.CreateWithCreator(ctx, team, member))
	assert.Equal(t, team.ID, member.TeamID)

	found, err := repo.FindMember(ctx, team.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)

	byCode, err := repo.FindByInviteCode(ctx, "1111-2222-3333")
	require.NoError(t, err)
	assert.Equal(t, team.ID, byCode.ID)
}

func TestFindByIDs(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	teams, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)

	zeta := &models.Team{Name: "Zeta", CreatedBy: "u", InviteCode: "z"}
	alpha := &models.Team{Name: "Alpha", CreatedBy: "u", InviteCode: "a"}
	other := &models.Team{Name: "Other", CreatedBy: "u", InviteCode: "o"}
	require.NoError(t, db.Create(zeta).Error)
	require.NoError(t, db.Create(alpha).Error)
	require.NoError(t, db.Create(other).Error)

	teams, err = repo.FindByIDs(ctx, []string{zeta.ID, alpha.ID})
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "Zeta", teams[1].Name)
}
