package services

import (
	"errors"
	"fmt"
	"time"

	"storytracker/internal/models"
	"storytracker/internal/repository"
	"gorm.io/gorm"
)

var ErrAnalyticNotFound = errors.New("analytic not found")

// AnalyticService keeps per-resource bookkeeping: creation time and mutation count.
// Records are cross-referenced siblings of the resources they track, never owned by them.
type AnalyticService struct {
	analyticRepo repository.AnalyticRepository
}

// NewAnalyticService creates a new AnalyticService
func NewAnalyticService(analyticRepo repository.AnalyticRepository) *AnalyticService {
	return &AnalyticService{
		analyticRepo: analyticRepo,
	}
}

// Create registers a fresh analytics record for a resource.
func (s *AnalyticService) Create(resourceID string) error {
	now := time.Now()
	analytic := &models.Analytic{
		ResourceID: resourceID,
		CreatedOn:  now,
		LastUpdate: now,
	}

	if err := s.analyticRepo.Create(analytic); err != nil {
		return fmt.Errorf("failed to create analytic: %w", err)
	}
	return nil
}

// Update bumps the mutation count and last-update stamp of a resource.
func (s *AnalyticService) Update(resourceID string) error {
	analytic, err := s.FindByResourceID(resourceID)
	if err != nil {
		return err
	}

	analytic.UpdatesCount++
	analytic.LastUpdate = time.Now()

	if err := s.analyticRepo.Update(analytic); err != nil {
		return fmt.Errorf("failed to update analytic: %w", err)
	}
	return nil
}

// FindByResourceID returns the analytics record of a resource.
func (s *AnalyticService) FindByResourceID(resourceID string) (*models.Analytic, error) {
	analytic, err := s.analyticRepo.FindByResourceID(resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalyticNotFound
		}
		return nil, fmt.Errorf("failed to find analytic: %w", err)
	}
	return analytic, nil
}
