package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ReviewHandler handles camp review requests
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest represents the request body for adding a review
type CreateReviewRequest struct {
	CampID  int64  `json:"camp_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/reviews. Author identity comes from the
// session, never from the body.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review := &models.Review{
		CampID:       req.CampID,
		AuthorName:   user.Name,
		AuthorAvatar: user.Avatar,
		AuthorEmail:  user.Email,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := h.reviewService.Create(r.Context(), review); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to create review")
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, review, http.StatusCreated)
}

// List handles GET /api/reviews?camp_id=...
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var campID int64
	if raw := r.URL.Query().Get("camp_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, "Invalid camp_id", http.StatusBadRequest)
			return
		}
		campID = parsed
	}

	reviews, err := h.reviewService.List(r.Context(), campID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reviews")
		respondError(w, "Failed to list reviews", http.StatusInternalServerError)
		return
	}
	respondJSON(w, reviews, http.StatusOK)
}
