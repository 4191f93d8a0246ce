package repository

import (
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task and, when assigneeID is set, its assignment
	// row within a single transaction
	Create(task *models.Task, assigneeID *uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// Delegate atomically appends the new assignee to the delegation chain,
	// increments the delegation count, removes the old assignment row and
	// inserts the new one
	Delegate(task *models.Task, oldAssignmentID, newAssigneeID uint64) error

	// UpdateStatus updates only the status column
	UpdateStatus(taskID uint64, status models.TaskStatus) error

	// CountSubTasks returns how many subtasks a parent has in total and how
	// many of them are done
	CountSubTasks(parentID uint64) (total int64, done int64, err error)

	// Update persists field changes on a task
	Update(task *models.Task) error

	// Delete removes a task, its subtasks and all related assignment rows
	Delete(id uint64) error

	// ListAssignedTo lists tasks currently assigned to the user, optionally
	// restricted to a due-date window
	ListAssignedTo(userID uint64, dueFrom, dueTo *time.Time) ([]models.Task, error)

	// ListDelegatedBy lists tasks the user created that are currently held
	// by someone else
	ListDelegatedBy(creatorID uint64) ([]models.Task, error)

	// ListByWorkspace lists all tasks of a workspace with pagination
	ListByWorkspace(workspaceID uint64, page, pageSize int) ([]models.Task, int64, error)

	// ListGeoTagged lists geo-tagged tasks across the user's workspaces
	ListGeoTagged(userID uint64) ([]models.Task, error)
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// Create creates a workspace and its owner membership atomically
	Create(workspace *models.Workspace, owner *models.WorkspaceMember) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// AddMember adds a member to a workspace
	AddMember(member *models.WorkspaceMember) error

	// FindMember finds a specific workspace member
	FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error)

	// ListMembershipsByUser lists all workspaces a user is a member of
	ListMembershipsByUser(userID uint64) ([]models.WorkspaceMember, error)

	// ListMembers lists all members of a workspace
	ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update persists field changes on a user
	Update(user *models.User) error

	// Search finds users whose name or email contains the query
	Search(query string, limit int) ([]models.User, error)

	// NamesByIDs resolves display names for a set of user ids
	NamesByIDs(ids []uint64) (map[uint64]string, error)
}

// LogRepository defines the interface for activity log data access
type LogRepository interface {
	// CreateBatch writes one log row per addressee
	CreateBatch(logs []models.ActivityLog) error

	// ListByUser lists a user's log rows, newest first
	ListByUser(userID uint64) ([]models.ActivityLog, error)
}

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	// Create persists a message
	Create(message *models.Message) error

	// FindByID finds a message with sender and receiver preloaded
	FindByID(id uint64) (*models.Message, error)

	// ListDirect lists the direct history between two users, oldest first
	ListDirect(userID, otherID uint64) ([]models.Message, error)

	// ListDirectByUser lists all direct messages involving the user, newest
	// first, for building the conversation list
	ListDirectByUser(userID uint64) ([]models.Message, error)

	// ListByWorkspace lists a workspace's messages with pagination, oldest first
	ListByWorkspace(workspaceID uint64, page, pageSize int) ([]models.Message, int64, error)
}

// TokenRepository defines the interface for refresh token data access
type TokenRepository interface {
	// Replace deletes any existing refresh tokens for the user and stores
	// the new one atomically
	Replace(userID uint64, token string, expiresAt time.Time) error

	// Find finds a stored refresh token
	Find(token string) (*models.RefreshToken, error)

	// Delete removes a stored refresh token
	Delete(token string) error

	// DeleteForUser removes a refresh token belonging to the user
	DeleteForUser(userID uint64, token string) error
}
