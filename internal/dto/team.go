package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	InviteCode  string    `json:"invite_code,omitempty"`
}

// MemberDTO represents a team member merged with their profile
type MemberDTO struct {
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	AvatarURL *string         `json:"avatar_url"`
	Role      models.TeamRole `json:"role"`
	JoinedAt  time.Time       `json:"joined_at"`
}

// TeamDetailDTO represents a team with its members and the caller's role
type TeamDetailDTO struct {
	TeamDTO
	Members  []MemberDTO     `json:"members"`
	YourRole models.TeamRole `json:"your_role"`
}

// ToTeamDTO converts a Team model to TeamDTO. The invite code is only
// exposed to admins.
func ToTeamDTO(team models.Team, includeInviteCode bool) TeamDTO {
	dto := TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedBy:   team.CreatedBy,
		CreatedAt:   team.CreatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = team.InviteCode
	}
	return dto
}

// ToTeamDTOs converts a slice of teams, never returning nil
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = ToTeamDTO(team, false)
	}
	return dtos
}

// ToMemberDTO converts a merged member to DTO
func ToMemberDTO(member services.Member) MemberDTO {
	return MemberDTO{
		UserID:    member.UserID,
		Name:      member.Name(),
		FirstName: member.FirstName,
		LastName:  member.LastName,
		AvatarURL: member.AvatarURL,
		Role:      member.Role,
		JoinedAt:  member.JoinedAt,
	}
}

// ToMemberDTOs converts a slice of members, never returning nil
func ToMemberDTOs(members []services.Member) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToMemberDTO(m)
	}
	return dtos
}

// ToTeamDetailDTO converts a team with members to the detailed DTO
func ToTeamDetailDTO(team models.Team, members []services.Member, yourRole models.TeamRole) TeamDetailDTO {
	return TeamDetailDTO{
		TeamDTO:  ToTeamDTO(team, yourRole == models.RoleAdmin),
		Members:  ToMemberDTOs(members),
		YourRole: yourRole,
	}
}
