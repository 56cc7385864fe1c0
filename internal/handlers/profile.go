package handlers

import (
	"encoding/json"
	"net/http"

	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ProfileHandler handles personal-data updates
type ProfileHandler struct {
	userService *services.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Update handles PUT /api/profile. Email is the identity key and cannot
// change.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	saved, err := h.userService.UpdateProfile(r.Context(), models.User{
		Name:   req.Name,
		Email:  user.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to update profile")
		respondError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	respondJSON(w, saved, http.StatusOK)
}
