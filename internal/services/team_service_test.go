package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"gorm.io/gorm"
)

func newTestTeamService(db *gorm.DB) *TeamService {
	return NewTeamService(repository.NewTeamRepository(db), repository.NewUserRepository(db), quietLogger())
}

func TestTeamService_CreateTeam(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTeamService(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "admin@example.com", "Ada", "Lovelace")

	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "  Platform  ", CreatorID: creator.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, "Platform", team.Name)
	assert.NotEmpty(t, team.InviteCode)
	assert.Equal(t, creator.ID, team.CreatedBy)

	member, err := svc.FindMembership(ctx, team.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, member.Role)
	require.NotNil(t, member.FirstName)
	assert.Equal(t, "Ada", *member.FirstName)

	_, err = svc.CreateTeam(ctx, CreateTeamInput{Name: "   ", CreatorID: creator.ID})
	assert.ErrorIs(t, err, ErrInvalidTeamName)
}

func TestTeamService_FetchTeamsForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTeamService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "")
	bob := createTestUser(t, db, "bob@example.com", "Bob", "")
	loner := createTestUser(t, db, "loner@example.com", "", "")

	alpha, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Alpha", CreatorID: alice.ID})
	require.NoError(t, err)
	beta, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Beta", CreatorID: bob.ID})
	require.NoError(t, err)
	addTestMember(t, db, beta.ID, alice.ID, models.RoleMember)

	teams, err := svc.FetchTeamsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, alpha.ID, teams[0].ID)
	assert.Equal(t, beta.ID, teams[1].ID)

	teams, err = svc.FetchTeamsForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Beta", teams[0].Name)

	teams, err = svc.FetchTeamsForUser(ctx, loner.ID)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestTeamService_ListTeamsForUser_SwallowsFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestTeamService(db)

	mock.ExpectQuery("SELECT (.+) FROM `team_members`").
		WillReturnError(errors.New("connection reset"))

	teams := svc.ListTeamsForUser(context.Background(), "user-1")
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_FetchTeamsForUser_PropagatesFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestTeamService(db)

	mock.ExpectQuery("SELECT (.+) FROM `team_members`").
		WillReturnError(errors.New("connection reset"))

	_, err := svc.FetchTeamsForUser(context.Background(), "user-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_FetchMembers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTeamService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Olga", "Ivanova")
	ghost := createTestUser(t, db, "ghost@example.com", "", "")

	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Ops", CreatorID: owner.ID})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   ghost.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now().Add(time.Minute),
	}).Error)

	members, err := svc.FetchMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
	assert.Equal(t, "Olga Ivanova", members[0].Name())

	// no profile row: the membership is kept with empty profile fields
	assert.Equal(t, ghost.ID, members[1].UserID)
	assert.Nil(t, members[1].FirstName)
	assert.Nil(t, members[1].LastName)
	assert.Nil(t, members[1].AvatarURL)
	assert.Equal(t, "", members[1].Name())

	empty := svc.ListMembers(ctx, "no-such-team")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTeamService_ListMembers_SwallowsFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestTeamService(db)

	mock.ExpectQuery("SELECT (.+) FROM `team_members`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "user_id", "role"}).
			AddRow("m1", "team-1", "user-1", "admin"))
	mock.ExpectQuery("SELECT (.+) FROM `profiles`").
		WillReturnError(errors.New("profiles table locked"))

	members := svc.ListMembers(context.Background(), "team-1")
	assert.NotNil(t, members)
	assert.Empty(t, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_JoinAndRemove(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTeamService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin@example.com", "Ann", "")
	joiner := createTestUser(t, db, "joiner@example.com", "Joe", "")

	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Design", CreatorID: admin.ID})
	require.NoError(t, err)

	_, err = svc.JoinTeamByInvite(ctx, joiner.ID, "WRONGCODE")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	joined, err := svc.JoinTeamByInvite(ctx, joiner.ID, " "+team.InviteCode+" ")
	require.NoError(t, err)
	assert.Equal(t, team.ID, joined.ID)

	member, err := svc.FindMembership(ctx, team.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)

	_, err = svc.JoinTeamByInvite(ctx, joiner.ID, team.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyTeamMember)

	assert.ErrorIs(t, svc.RemoveMember(ctx, team.ID, admin.ID, admin.ID), ErrCannotRemoveYourself)

	require.NoError(t, svc.RemoveMember(ctx, team.ID, admin.ID, joiner.ID))
	_, err = svc.FindMembership(ctx, team.ID, joiner.ID)
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	assert.ErrorIs(t, svc.RemoveMember(ctx, team.ID, admin.ID, joiner.ID), ErrTeamMemberNotFound)
}

func TestTeamService_RegenerateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTeamService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin@example.com", "Ann", "")
	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Sales", CreatorID: admin.ID})
	require.NoError(t, err)
	oldCode := team.InviteCode

	updated, err := svc.RegenerateInviteCode(ctx, team.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldCode, updated.InviteCode)

	_, err = svc.JoinTeamByInvite(ctx, "someone", oldCode)
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	require.NoError(t, db.Create(&models.Task{Title: "team task", CreatorID: admin.ID, TeamID: &team.ID, Priority: models.TaskPriorityLow, Status: models.TaskStatusPending}).Error)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))

	_, err = svc.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	var remaining int64
	require.NoError(t, db.Model(&models.Task{}).Where("team_id = ?", team.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, svc.DeleteTeam(ctx, team.ID), ErrTeamNotFound)
}
