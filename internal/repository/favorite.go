package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository handles database operations for favorite camps
type FavoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a camp as favorite for a user; adding twice is harmless
func (r *FavoriteRepository) Add(ctx context.Context, userID string, campID int64) error {
	query := `
		INSERT INTO favorites (user_id, camp_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, campID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove unmarks a favorite
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, campID int64) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND camp_id = $2`
	if _, err := r.db.Exec(ctx, query, userID, campID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListByUser returns the camp ids a user has favorited
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT camp_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	campIDs := []int64{}
	for rows.Next() {
		var campID int64
		if err := rows.Scan(&campID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		campIDs = append(campIDs, campID)
	}
	return campIDs, rows.Err()
}
