package services

import (
	"context"
	"time"

	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// Event log categories
const (
	LogCategoryLogin       = "login"
	LogCategorySignup      = "signup"
	LogCategoryLogout      = "logout"
	LogCategoryEnrollments = "enrollments"
	LogCategoryUpdates     = "updates"
)

// EventLogService records structured application events in the logs
// table. Writes are fire-and-forget: a failed insert is logged and
// dropped, never retried.
type EventLogService struct {
	logRepo *repository.LogRepository
}

// NewEventLogService creates a new event log service
func NewEventLogService(logRepo *repository.LogRepository) *EventLogService {
	return &EventLogService{logRepo: logRepo}
}

// Log records an event without blocking the caller
func (s *EventLogService) Log(category string, data map[string]any) {
	entry := &models.LogEntry{
		Timestamp: time.Now(),
		Category:  category,
		Data:      data,
	}

	log.Info().Str("category", category).Fields(data).Msg("Event")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.logRepo.Insert(ctx, entry); err != nil {
			log.Warn().Err(err).Str("category", category).Msg("Failed to persist event log entry")
		}
	}()
}

// History returns the stored event log, newest first
func (s *EventLogService) History(ctx context.Context) ([]models.LogEntry, error) {
	return s.logRepo.List(ctx)
}
