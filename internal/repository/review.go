package repository

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository handles database operations for camp reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (camp_id, author_name, author_avatar, author_email, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		review.CampID, review.AuthorName, review.AuthorAvatar,
		review.AuthorEmail, review.Rating, review.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// List retrieves all reviews
func (r *ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	query := `
		SELECT camp_id, author_name, author_avatar, author_email, rating, comment
		FROM reviews
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.CampID, &review.AuthorName, &review.AuthorAvatar,
			&review.AuthorEmail, &review.Rating, &review.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ListByCamp retrieves reviews for one camp
func (r *ReviewRepository) ListByCamp(ctx context.Context, campID int64) ([]models.Review, error) {
	query := `
		SELECT camp_id, author_name, author_avatar, author_email, rating, comment
		FROM reviews
		WHERE camp_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, campID)
	if err != nil {
		return nil, fmt.Errorf("failed to list camp reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.CampID, &review.AuthorName, &review.AuthorAvatar,
			&review.AuthorEmail, &review.Rating, &review.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
