package handlers

import (
	"net/http"

	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// LogsHandler exposes the persisted application event history
type LogsHandler struct {
	eventLog *services.EventLogService
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(eventLog *services.EventLogService) *LogsHandler {
	return &LogsHandler{eventLog: eventLog}
}

// List handles GET /api/logs
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.eventLog.History(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list event log")
		respondError(w, "Failed to list event log", http.StatusInternalServerError)
		return
	}
	respondJSON(w, entries, http.StatusOK)
}
