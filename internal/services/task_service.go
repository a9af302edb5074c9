package services

import (
	"errors"
	"fmt"
	"time"

	"storytracker/internal/models"
	"storytracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrPointsRequired       = errors.New("points are required for a user story")
	ErrBusinessRuleEnforced = errors.New("operation violates a business rule")
)

// TaskService orchestrates task mutations: it looks entities up, applies approved
// changes, persists them, and notifies the analytics collaborator. Field validation
// happens at the transport boundary before any mutation call; lookups that fail
// propagate ErrTaskNotFound unmodified.
type TaskService struct {
	taskRepo  repository.TaskRepository
	analytics *AnalyticService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, analytics *AnalyticService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		analytics: analytics,
	}
}

// ListTasksInput represents filters for listing tasks. CreatedBefore is matched
// against the analytics record's creation timestamp.
type ListTasksInput struct {
	ProjectID     *string
	CreatedBefore *time.Time
	Offset        int
	Limit         int
}

// CreateStoryInput represents input for creating either story variant.
type CreateStoryInput struct {
	Title       string
	Description string
	Assignee    string
	Status      models.TaskStatus
	Tags        []string
	Priority    models.Priority
	ProjectID   string
	Points      *float64
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Assignee    *string
	Status      *models.TaskStatus
	Points      *float64
	Tags        []string
	Priority    *models.Priority
}

// List returns a page of tasks matching the filters.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID:     input.ProjectID,
		CreatedBefore: input.CreatedBefore,
		Offset:        input.Offset,
		Limit:         input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns how many tasks match the filters, ignoring pagination.
func (s *TaskService) Count(input ListTasksInput) (int64, error) {
	total, err := s.taskRepo.Count(repository.TaskFilter{
		ProjectID:     input.ProjectID,
		CreatedBefore: input.CreatedBefore,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

// GetTask returns a task by ID.
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	return s.findByID(taskID)
}

// CreateUserStory creates a task carrying an effort-point estimate and records its
// creation with the analytics collaborator.
func (s *TaskService) CreateUserStory(input CreateStoryInput) (*models.Task, error) {
	if input.Points == nil {
		return nil, ErrPointsRequired
	}

	task := models.OfUserStory(input.ProjectID, input.Title, input.Description, input.Assignee,
		*input.Points, input.Status, input.Tags, input.Priority)

	return s.persistNew(task)
}

// CreateTechnicalStory creates a task without an effort-point estimate and records
// its creation with the analytics collaborator.
func (s *TaskService) CreateTechnicalStory(input CreateStoryInput) (*models.Task, error) {
	task := models.OfTechnicalStory(input.ProjectID, input.Title, input.Description, input.Assignee,
		input.Status, input.Tags, input.Priority)

	return s.persistNew(task)
}

func (s *TaskService) persistNew(task *models.Task) (*models.Task, error) {
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if err := s.analytics.Create(task.ID); err != nil {
		return nil, fmt.Errorf("failed to record task creation: %w", err)
	}
	return task, nil
}

// UpdateTask applies only the supplied fields. Points supplied on a technical story
// are silently ignored. Analytics is notified iff at least one field was applied.
func (s *TaskService) UpdateTask(taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findByID(taskID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Title != nil {
		task.Title = *input.Title
		changed = true
	}
	if input.Description != nil {
		task.Description = *input.Description
		changed = true
	}
	if input.Assignee != nil {
		task.Assignee = *input.Assignee
		changed = true
	}
	if input.Status != nil {
		task.Status = models.NormalizeStatus(*input.Status)
		changed = true
	}
	if input.Points != nil && task.IsUserStory() {
		task.Points = input.Points
		changed = true
	}
	if input.Tags != nil {
		task.Tags = input.Tags
		changed = true
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
		changed = true
	}

	if !changed {
		return task, nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := s.analytics.Update(task.ID); err != nil {
		return nil, fmt.Errorf("failed to record task update: %w", err)
	}

	return task, nil
}

// UpdateStatus moves a task to the target status, bypassing the free-transition
// whitelist. It backs the dedicated QA and complete operations and always notifies
// analytics.
func (s *TaskService) UpdateStatus(taskID string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.findByID(taskID)
	if err != nil {
		return nil, err
	}

	task.Status = models.NormalizeStatus(status)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	if err := s.analytics.Update(task.ID); err != nil {
		return nil, fmt.Errorf("failed to record status update: %w", err)
	}

	return task, nil
}

// SwitchArchivedStatus flips the archived flag and returns the new value. Toggling
// is always legal and independent of status.
func (s *TaskService) SwitchArchivedStatus(taskID string) (bool, error) {
	task, err := s.findByID(taskID)
	if err != nil {
		return false, err
	}

	task.IsArchived = !task.IsArchived

	if err := s.taskRepo.Update(task); err != nil {
		return false, fmt.Errorf("failed to switch archived status: %w", err)
	}
	if err := s.analytics.Update(task.ID); err != nil {
		return false, fmt.Errorf("failed to record archive toggle: %w", err)
	}

	return task.IsArchived, nil
}

// Delete removes a task. Only archived tasks may be removed; anything else is a
// business-rule violation.
func (s *TaskService) Delete(taskID string) error {
	task, err := s.findByID(taskID)
	if err != nil {
		return err
	}

	if !task.IsArchived {
		return ErrBusinessRuleEnforced
	}

	if err := s.taskRepo.Delete(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.analytics.Update(task.ID); err != nil {
		return fmt.Errorf("failed to record task deletion: %w", err)
	}

	return nil
}

func (s *TaskService) findByID(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
