package services

import (
	"errors"
	"fmt"

	"storytracker/internal/models"
	"storytracker/internal/repository"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles the thin project surface the task core depends on.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// Create creates a project owned by the given user.
func (s *ProjectService) Create(name, ownerID string) (*models.Project, error) {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// FindByID returns a project visible to the given owner.
func (s *ProjectService) FindByID(projectID, ownerID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListByOwner lists the projects of an owner.
func (s *ProjectService) ListByOwner(ownerID string) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ExistsWithID reports whether the project exists and belongs to the given owner.
func (s *ProjectService) ExistsWithID(projectID, ownerID string) bool {
	if projectID == "" {
		return false
	}
	_, err := s.projectRepo.FindByIDAndOwner(projectID, ownerID)
	return err == nil
}
