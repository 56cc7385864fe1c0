package services

import (
	"context"

	"camp-hub-backend/internal/metrics"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// EnrollmentService handles camp registrations
type EnrollmentService struct {
	enrollmentRepo *repository.EnrollmentRepository
	eventLog       *EventLogService
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, eventLog *EventLogService) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		eventLog:       eventLog,
	}
}

// Create persists an enrollment
func (s *EnrollmentService) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return err
	}
	metrics.EnrollmentsCreated.Inc()
	return nil
}

// ListByUser returns a user's enrollments, newest first
func (s *EnrollmentService) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

// Delete removes an enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	return s.enrollmentRepo.Delete(ctx, id)
}

// Confirm implements the registration-flow confirmation side effect:
// best effort persistence of the enrollment built from the completed
// selection chain. The flow has already moved on; outcome is recorded
// in the event log only.
func (s *EnrollmentService) Confirm(ctx context.Context, user models.User, camp models.Camp, dates models.DateRange, form models.FormData) {
	s.eventLog.Log(LogCategoryEnrollments, map[string]any{
		"action": "New Enrollment", "status": "PENDING",
		"camp": camp.Name, "user": user.Name, "email": user.Email,
		"photoPermission": form.PhotoPermission,
	})

	enrollment := &models.Enrollment{
		UserID:    user.Email,
		CampID:    camp.ID,
		StartDate: dates.Start,
		EndDate:   dates.End,
		FormData:  &form,
	}

	if err := s.Create(ctx, enrollment); err != nil {
		log.Error().Err(err).Str("user", user.Email).Int64("camp_id", camp.ID).Msg("Failed to confirm enrollment")
		s.eventLog.Log(LogCategoryEnrollments, map[string]any{
			"action": "New Enrollment", "status": "ERROR", "error": err.Error(),
			"camp": camp.Name, "user": user.Name, "email": user.Email,
		})
		return
	}

	s.eventLog.Log(LogCategoryEnrollments, map[string]any{
		"action": "New Enrollment", "status": "OK",
		"camp": camp.Name, "user": user.Name, "email": user.Email,
		"photoPermission": form.PhotoPermission,
	})
}
