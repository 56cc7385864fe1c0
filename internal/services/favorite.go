package services

import (
	"context"

	"camp-hub-backend/internal/repository"
)

// FavoriteService handles the favorite-camps list
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favoriteRepo *repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

// Toggle adds or removes a favorite and reports the resulting state
func (s *FavoriteService) Toggle(ctx context.Context, userID string, campID int64) (bool, error) {
	campIDs, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range campIDs {
		if id == campID {
			return false, s.favoriteRepo.Remove(ctx, userID, campID)
		}
	}
	return true, s.favoriteRepo.Add(ctx, userID, campID)
}

// List returns the camp ids a user has favorited
func (s *FavoriteService) List(ctx context.Context, userID string) ([]int64, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}
