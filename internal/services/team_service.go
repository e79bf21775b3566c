package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound               = errors.New("team not found")
	ErrInvalidTeamName            = errors.New("team name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyTeamMember          = errors.New("user is already a member of this team")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the team")
	ErrTeamMemberNotFound         = errors.New("team member not found")
)

// Member is a membership merged with the member's current profile.
// Profile fields are nil when no profile row exists for the user.
type Member struct {
	UserID    string          `json:"user_id"`
	Role      models.TeamRole `json:"role"`
	JoinedAt  time.Time       `json:"joined_at"`
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	AvatarURL *string         `json:"avatar_url"`
}

// Name is the display name used for assignment snapshots.
func (m Member) Name() string {
	var parts []string
	if m.FirstName != nil && strings.TrimSpace(*m.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(*m.FirstName))
	}
	if m.LastName != nil && strings.TrimSpace(*m.LastName) != "" {
		parts = append(parts, strings.TrimSpace(*m.LastName))
	}
	return strings.Join(parts, " ")
}

// TeamService provides team and membership lookups and team administration.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	log      *logrus.Logger
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, log *logrus.Logger) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description *string
	CreatorID   string
}

// CreateTeam creates a team and makes its creator an admin, atomically.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		CreatedBy:   input.CreatorID,
		InviteCode:  inviteCode,
	}

	member := &models.TeamMember{
		UserID:   input.CreatorID,
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}
	s.copyProfileSnapshot(ctx, member)

	if err := s.teamRepo.CreateWithCreator(ctx, team, member); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// FetchTeamsForUser resolves the teams a user belongs to: memberships first,
// then the team rows of those memberships.
func (s *TeamService) FetchTeamsForUser(ctx context.Context, userID string) ([]models.Team, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []models.Team{}, nil
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}

	teams, err := s.teamRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find teams: %w", err)
	}
	return teams, nil
}

// ListTeamsForUser is FetchTeamsForUser for callers that prefer an empty list
// over an error. Failures are logged.
func (s *TeamService) ListTeamsForUser(ctx context.Context, userID string) []models.Team {
	teams, err := s.FetchTeamsForUser(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("team lookup failed")
		return []models.Team{}
	}
	return teams
}

// FetchMembers resolves the members of a team merged with their profiles.
// Memberships without a profile are kept with empty profile fields.
func (s *TeamService) FetchMembers(ctx context.Context, teamID string) ([]Member, error) {
	memberships, err := s.teamRepo.ListMembershipsByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []Member{}, nil
	}

	userIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}

	profiles, err := s.userRepo.FindProfilesByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}

	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	members := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		member := Member{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if p, ok := byID[m.UserID]; ok {
			member.FirstName = p.FirstName
			member.LastName = p.LastName
			member.AvatarURL = p.AvatarURL
		}
		members = append(members, member)
	}

	return members, nil
}

// ListMembers is FetchMembers degrading to an empty list on failure.
func (s *TeamService) ListMembers(ctx context.Context, teamID string) []Member {
	members, err := s.FetchMembers(ctx, teamID)
	if err != nil {
		s.log.WithError(err).WithField("team_id", teamID).Error("member lookup failed")
		return []Member{}
	}
	return members
}

// GetTeam returns a team by id.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// FindMembership returns the membership of a user in a team.
func (s *TeamService) FindMembership(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

// DeleteTeam removes a team together with its memberships and tasks.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// JoinTeamByInvite adds a user to a team via invite code.
func (s *TeamService) JoinTeamByInvite(ctx context.Context, userID, inviteCode string) (*models.Team, error) {
	team, err := s.teamRepo.FindByInviteCode(ctx, utils.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find team by invite code: %w", err)
	}

	if _, err := s.teamRepo.FindMember(ctx, team.ID, userID); err == nil {
		return nil, ErrAlreadyTeamMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	s.copyProfileSnapshot(ctx, member)

	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member to team: %w", err)
	}

	return team, nil
}

// RegenerateInviteCode generates a new invite code for the team.
func (s *TeamService) RegenerateInviteCode(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	team.InviteCode = code
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return team, nil
}

// RemoveMember removes a member from the team.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, targetID string) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.FindMembership(ctx, teamID, targetID); err != nil {
		return err
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// copyProfileSnapshot fills the membership's name and avatar columns from the
// user's profile. A missing profile leaves them empty.
func (s *TeamService) copyProfileSnapshot(ctx context.Context, member *models.TeamMember) {
	profile, err := s.userRepo.FindProfile(ctx, member.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.WithError(err).WithField("user_id", member.UserID).Warn("profile lookup failed")
		}
		return
	}
	member.FirstName = profile.FirstName
	member.LastName = profile.LastName
	member.AvatarURL = profile.AvatarURL
}
