package handlers

import (
	"net/http"
	"time"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":  "ok",
		"service": "camp-hub-backend",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
