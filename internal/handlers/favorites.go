package handlers

import (
	"encoding/json"
	"net/http"

	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FavoriteHandler handles favorite-camp requests
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ToggleFavoriteRequest represents the request body for toggling a favorite
type ToggleFavoriteRequest struct {
	CampID int64 `json:"camp_id"`
}

// Toggle handles PUT /api/favorites
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CampID == 0 {
		respondError(w, "camp_id is required", http.StatusBadRequest)
		return
	}

	favorited, err := h.favoriteService.Toggle(r.Context(), user.Email, req.CampID)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Int64("camp_id", req.CampID).Msg("Failed to toggle favorite")
		respondError(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"camp_id": req.CampID, "favorited": favorited}, http.StatusOK)
}

// List handles GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	campIDs, err := h.favoriteService.List(r.Context(), user.Email)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to list favorites")
		respondError(w, "Failed to list favorites", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"camp_ids": campIDs}, http.StatusOK)
}
