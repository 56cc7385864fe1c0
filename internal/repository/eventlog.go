package repository

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LogRepository handles database operations for the application event log
type LogRepository struct {
	db *pgxpool.Pool
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *pgxpool.Pool) *LogRepository {
	return &LogRepository{db: db}
}

// Insert appends an event row
func (r *LogRepository) Insert(ctx context.Context, entry *models.LogEntry) error {
	query := `INSERT INTO logs (timestamp, category, data) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, entry.Timestamp, entry.Category, entry.Data); err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// List retrieves all log entries, newest first
func (r *LogRepository) List(ctx context.Context) ([]models.LogEntry, error) {
	query := `SELECT timestamp, category, data FROM logs ORDER BY timestamp DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var entry models.LogEntry
		if err := rows.Scan(&entry.Timestamp, &entry.Category, &entry.Data); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
