package repository

import (
	"time"

	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, bounded by filter.Limit
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListScoped returns the caller's scoped task set in a single read:
	// every task for superusers, owned-or-assigned tasks otherwise
	ListScoped(userID uint64, superuser bool) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// SetStatus writes a status transition: status and completed_at are
	// persisted together in one statement
	SetStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    *uint64
	OwnerID      *uint64
	AssignedToID *uint64
	Status       *models.TaskStatus
	EndDateFrom  *time.Time
	EndDateTo    *time.Time
	Limit        int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its participant set atomically. The
	// owner is always added to the participants.
	Create(project *models.Project, participantIDs []uint64) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListVisible lists projects the user owns or participates in
	ListVisible(userID uint64, superuser bool) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and cascades to its tasks
	Delete(id uint64) error

	// AddParticipant adds a user to the project's participant set
	AddParticipant(projectID, userID uint64) error

	// RemoveParticipant removes a participant and unassigns their tasks in
	// the project within one transaction
	RemoveParticipant(projectID, userID uint64) error

	// IsParticipant reports whether the user belongs to the project's
	// participant set
	IsParticipant(projectID, userID uint64) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists users with pagination
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error
}
