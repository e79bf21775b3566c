package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task; the storage layer assigns the id
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks visible under the filter, with the total before paging
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update overwrites every column of the task (last write wins)
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// UserID sees their personal tasks plus tasks of TeamIDs
	UserID         string
	TeamIDs        []string
	OnlyTeamID     *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *string
	SortByDueDate  bool
	Offset         int
	Limit          int
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// CreateWithCreator inserts the team and the creator's admin membership atomically
	CreateWithCreator(ctx context.Context, team *models.Team, member *models.TeamMember) error

	// FindByID finds a team by ID
	FindByID(ctx context.Context, id string) (*models.Team, error)

	// FindByIDs finds all teams whose id is in the set
	FindByIDs(ctx context.Context, ids []string) ([]models.Team, error)

	// FindByInviteCode finds a team by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Team, error)

	// Update updates a team
	Update(ctx context.Context, team *models.Team) error

	// Delete deletes a team, its memberships and its tasks
	Delete(ctx context.Context, id string) error

	// AddMember inserts a membership row
	AddMember(ctx context.Context, member *models.TeamMember) error

	// RemoveMember deletes a membership row
	RemoveMember(ctx context.Context, teamID, userID string) error

	// FindMember finds a specific membership
	FindMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error)

	// ListMembershipsByUser lists membership rows of a user
	ListMembershipsByUser(ctx context.Context, userID string) ([]models.TeamMember, error)

	// ListMembershipsByTeam lists membership rows of a team
	ListMembershipsByTeam(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// UserRepository defines the interface for user and profile data access
type UserRepository interface {
	// CreateWithProfile creates a user and their profile within a single transaction.
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindProfile finds the profile of a user
	FindProfile(ctx context.Context, userID string) (*models.Profile, error)

	// FindProfilesByIDs finds all profiles whose id is in the set
	FindProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error)

	// SaveProfile upserts a profile
	SaveProfile(ctx context.Context, profile *models.Profile) error
}
