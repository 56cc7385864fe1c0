package repository

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CampRepository handles database operations for camps
type CampRepository struct {
	db *pgxpool.Pool
}

// NewCampRepository creates a new camp repository
func NewCampRepository(db *pgxpool.Pool) *CampRepository {
	return &CampRepository{db: db}
}

// List retrieves all camps ordered by start date ascending
func (r *CampRepository) List(ctx context.Context) ([]models.Camp, error) {
	query := `
		SELECT id, name, location, description, long_description, main_image,
		       images, highlights, official_site, contact_phone, contact_email,
		       price, start_date, end_date
		FROM camps
		ORDER BY start_date ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list camps: %w", err)
	}
	defer rows.Close()

	var camps []models.Camp
	for rows.Next() {
		var camp models.Camp
		err := rows.Scan(
			&camp.ID, &camp.Name, &camp.Location, &camp.Description,
			&camp.LongDescription, &camp.MainImage, &camp.Images, &camp.Highlights,
			&camp.OfficialSite, &camp.ContactPhone, &camp.ContactEmail,
			&camp.Price, &camp.StartDate, &camp.EndDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camp: %w", err)
		}
		camps = append(camps, camp)
	}
	return camps, rows.Err()
}

// GetByID retrieves a single camp
func (r *CampRepository) GetByID(ctx context.Context, id int64) (*models.Camp, error) {
	query := `
		SELECT id, name, location, description, long_description, main_image,
		       images, highlights, official_site, contact_phone, contact_email,
		       price, start_date, end_date
		FROM camps
		WHERE id = $1
	`
	var camp models.Camp
	err := r.db.QueryRow(ctx, query, id).Scan(
		&camp.ID, &camp.Name, &camp.Location, &camp.Description,
		&camp.LongDescription, &camp.MainImage, &camp.Images, &camp.Highlights,
		&camp.OfficialSite, &camp.ContactPhone, &camp.ContactEmail,
		&camp.Price, &camp.StartDate, &camp.EndDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("camp not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get camp: %w", err)
	}
	return &camp, nil
}
