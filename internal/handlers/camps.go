package handlers

import (
	"net/http"

	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CampHandler handles camp catalog requests
type CampHandler struct {
	campService *services.CampService
}

// NewCampHandler creates a new camp handler
func NewCampHandler(campService *services.CampService) *CampHandler {
	return &CampHandler{campService: campService}
}

// List handles GET /api/camps
func (h *CampHandler) List(w http.ResponseWriter, r *http.Request) {
	camps, err := h.campService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list camps")
		respondError(w, "Failed to list camps", http.StatusInternalServerError)
		return
	}
	respondJSON(w, camps, http.StatusOK)
}
