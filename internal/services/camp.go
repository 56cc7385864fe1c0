package services

import (
	"context"

	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/repository"
)

// CampService is a thin pass-through over the camps table
type CampService struct {
	campRepo *repository.CampRepository
}

// NewCampService creates a new camp service
func NewCampService(campRepo *repository.CampRepository) *CampService {
	return &CampService{campRepo: campRepo}
}

// List returns all camps ordered by start date ascending
func (s *CampService) List(ctx context.Context) ([]models.Camp, error) {
	return s.campRepo.List(ctx)
}

// GetByID returns a single camp
func (s *CampService) GetByID(ctx context.Context, id int64) (*models.Camp, error) {
	return s.campRepo.GetByID(ctx, id)
}
