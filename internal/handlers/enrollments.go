package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"camp-hub-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EnrollmentStore is the slice of the enrollment service the handler
// needs; satisfied by *services.EnrollmentService.
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
}

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	enrollments EnrollmentStore
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollments EnrollmentStore) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// CreateEnrollmentRequest represents the request body for creating an enrollment
type CreateEnrollmentRequest struct {
	UserID    string           `json:"user_id"`
	CampID    int64            `json:"camp_id"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	FormData  *models.FormData `json:"form_data"`
}

// Create handles POST /api/enrollments
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.CampID == 0 || req.StartDate.IsZero() || req.EndDate.IsZero() {
		respondError(w, "user_id, camp_id, start_date and end_date are required", http.StatusBadRequest)
		return
	}

	enrollment := &models.Enrollment{
		UserID:    req.UserID,
		CampID:    req.CampID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		FormData:  req.FormData,
	}
	if err := h.enrollments.Create(r.Context(), enrollment); err != nil {
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to create enrollment")
		respondError(w, "Failed to create enrollment", http.StatusInternalServerError)
		return
	}

	respondJSON(w, enrollment, http.StatusCreated)
}

// List handles GET /api/enrollments?user_id=...
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	enrollments, err := h.enrollments.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list enrollments")
		respondError(w, "Failed to list enrollments", http.StatusInternalServerError)
		return
	}
	respondJSON(w, enrollments, http.StatusOK)
}

// Delete handles DELETE /api/enrollments/{id}
func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid enrollment id", http.StatusBadRequest)
		return
	}

	if err := h.enrollments.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete enrollment")
		respondError(w, "Failed to delete enrollment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
