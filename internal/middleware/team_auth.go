package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// RequireTeamAccess checks if the user is a member of the team in the :id parameter
func RequireTeamAccess(teamService *services.TeamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		ctx := c.Request.Context()
		teamID := c.Param("id")

		team, err := teamService.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, services.ErrTeamNotFound) {
				apierrors.NotFound(c, "Team not found")
				return
			}
			apierrors.InternalError(c, "")
			return
		}

		member, err := teamService.FindMembership(ctx, teamID, userID)
		if err != nil {
			// Return 404 instead of 403 to avoid leaking team existence
			if errors.Is(err, services.ErrTeamMemberNotFound) {
				apierrors.NotFound(c, "Team not found")
				return
			}
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyTeam, *team)
		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// RequireTeamAdmin checks if the user is an admin of the team.
// It must run after RequireTeamAccess.
func RequireTeamAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetTeamMember(c)
		if !ok {
			apierrors.Forbidden(c, "Team access required")
			return
		}

		if member.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Only team admins can perform this action")
			return
		}

		c.Next()
	}
}

// GetTeam retrieves the team loaded by RequireTeamAccess
func GetTeam(c *gin.Context) (models.Team, bool) {
	v, exists := c.Get(constants.ContextKeyTeam)
	if !exists {
		return models.Team{}, false
	}
	team, ok := v.(models.Team)
	return team, ok
}

// GetTeamMember retrieves the caller's membership loaded by RequireTeamAccess
func GetTeamMember(c *gin.Context) (models.TeamMember, bool) {
	v, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return models.TeamMember{}, false
	}
	member, ok := v.(models.TeamMember)
	return member, ok
}
