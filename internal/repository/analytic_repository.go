package repository

import (
	"storytracker/internal/models"
	"gorm.io/gorm"
)

// GormAnalyticRepository is a GORM implementation of AnalyticRepository
type GormAnalyticRepository struct {
	db *gorm.DB
}

// NewAnalyticRepository creates a new AnalyticRepository
func NewAnalyticRepository(db *gorm.DB) AnalyticRepository {
	return &GormAnalyticRepository{db: db}
}

// Create creates a new analytics record
func (r *GormAnalyticRepository) Create(analytic *models.Analytic) error {
	return r.db.Create(analytic).Error
}

// FindByResourceID finds the analytics record for a resource
func (r *GormAnalyticRepository) FindByResourceID(resourceID string) (*models.Analytic, error) {
	var analytic models.Analytic
	if err := r.db.Where("resource_id = ?", resourceID).First(&analytic).Error; err != nil {
		return nil, err
	}
	return &analytic, nil
}

// Update updates an analytics record
func (r *GormAnalyticRepository) Update(analytic *models.Analytic) error {
	return r.db.Save(analytic).Error
}
