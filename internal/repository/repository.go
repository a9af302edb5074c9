package repository

import (
	"time"

	"storytracker/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, error)

	// Count counts the tasks matching the filter, ignoring pagination
	Count(filter TaskFilter) (int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(task *models.Task) error
}

// TaskFilter holds filtering options for listing tasks. CreatedBefore is matched
// against the analytics record of each task, not the task itself.
type TaskFilter struct {
	ProjectID     *string
	CreatedBefore *time.Time
	Offset        int
	Limit         int
}

// AnalyticRepository defines the interface for analytics data access
type AnalyticRepository interface {
	// Create creates a new analytics record
	Create(analytic *models.Analytic) error

	// FindByResourceID finds the analytics record for a resource
	FindByResourceID(resourceID string) (*models.Analytic, error)

	// Update updates an analytics record
	Update(analytic *models.Analytic) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id string) (*models.Project, error)

	// FindByIDAndOwner finds a project by ID scoped to its owner
	FindByIDAndOwner(id, ownerID string) (*models.Project, error)

	// ListByOwner lists all projects of an owner
	ListByOwner(ownerID string) ([]models.Project, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
