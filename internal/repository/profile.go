package repository

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO profiles (email, name, avatar, role)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, user.Email, user.Name, user.Avatar, user.Role)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByEmail retrieves a profile by email (case-insensitive)
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT email, name, avatar, role
		FROM profiles
		WHERE LOWER(email) = LOWER($1)
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(&user.Email, &user.Name, &user.Avatar, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("profile not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &user, nil
}

// GetByName retrieves a profile by display name (case-insensitive)
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	query := `
		SELECT email, name, avatar, role
		FROM profiles
		WHERE LOWER(name) = LOWER($1)
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, name).Scan(&user.Email, &user.Name, &user.Avatar, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("profile not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get profile by name: %w", err)
	}
	return &user, nil
}

// EmailExists checks whether a profile already uses the email
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE LOWER(email) = LOWER($1))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// List retrieves all profiles
func (r *ProfileRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT email, name, avatar, role FROM profiles ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Email, &user.Name, &user.Avatar, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update changes a profile's name and avatar, keyed by email
func (r *ProfileRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE profiles SET name = $1, avatar = $2 WHERE LOWER(email) = LOWER($3)`
	tag, err := r.db.Exec(ctx, query, user.Name, user.Avatar, user.Email)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}
