package services

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/repository"
)

// ReviewService handles camp reviews
type ReviewService struct {
	reviewRepo *repository.ReviewRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo *repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// Create stores a review after basic shape validation
func (s *ReviewService) Create(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if review.CampID == 0 {
		return fmt.Errorf("camp_id is required")
	}
	return s.reviewRepo.Create(ctx, review)
}

// List returns all reviews, optionally filtered by camp
func (s *ReviewService) List(ctx context.Context, campID int64) ([]models.Review, error) {
	if campID > 0 {
		return s.reviewRepo.ListByCamp(ctx, campID)
	}
	return s.reviewRepo.List(ctx)
}
