package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"camp-hub-backend/internal/flow"
	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// sessionHeader carries the browsing-session id. The server mints one on
// first contact and echoes it back; the flow state lives under it.
const sessionHeader = "X-Session-ID"

// CampResolver looks a camp up for the select-camp intent; satisfied by
// *services.CampService.
type CampResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Camp, error)
}

// FlowHandler drives per-session navigation state over HTTP
type FlowHandler struct {
	flows *flow.Manager
	camps CampResolver
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(flows *flow.Manager, camps CampResolver) *FlowHandler {
	return &FlowHandler{flows: flows, camps: camps}
}

// Get handles GET /api/flow
func (h *FlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, sessionID := h.flows.Get(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, sessionID)
	respondJSON(w, f.Snapshot(), http.StatusOK)
}

// SelectCampRequest identifies the clicked camp card
type SelectCampRequest struct {
	CampID int64 `json:"camp_id"`
}

// PickDatesRequest carries the chosen stay interval
type PickDatesRequest struct {
	Dates models.DateRange `json:"dates"`
}

// SubmitFormRequest carries the completed registration form
type SubmitFormRequest struct {
	Form models.FormData `json:"form"`
}

// Intent handles POST /api/flow/{intent}
func (h *FlowHandler) Intent(w http.ResponseWriter, r *http.Request) {
	f, sessionID := h.flows.Get(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, sessionID)

	intent := chi.URLParam(r, "intent")
	var err error

	switch intent {
	case "select-camp":
		var req SelectCampRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		camp, lookupErr := h.camps.GetByID(r.Context(), req.CampID)
		if lookupErr != nil {
			respondError(w, "Camp not found", http.StatusNotFound)
			return
		}
		f.SelectCamp(*camp)

	case "open-auth":
		err = f.OpenAuth()

	case "close-auth":
		err = f.CloseAuth()

	case "complete-auth":
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			respondError(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		err = f.CompleteAuth(user)

	case "more-info":
		err = f.MoreInfo()

	case "close-info":
		err = f.CloseInfo()

	case "home":
		f.GoHome()

	case "pick-dates":
		var req PickDatesRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = f.PickDates(req.Dates)

	case "submit-form":
		var req SubmitFormRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = f.SubmitForm(req.Form)

	case "back":
		err = f.BackToDetail()

	case "confirm":
		err = f.Confirm(r.Context())

	case "account":
		err = f.OpenAccount()

	case "community":
		f.OpenCommunity()

	case "logout":
		f.Logout()

	case "switch-account":
		f.SwitchAccount()

	default:
		respondError(w, "Unknown intent", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Debug().Err(err).Str("intent", intent).Str("session", sessionID).Msg("Flow transition refused")
		respondError(w, err.Error(), flowStatus(err))
		return
	}
	respondJSON(w, f.Snapshot(), http.StatusOK)
}

// flowStatus maps transition guard failures to HTTP status codes. Guards
// refuse without mutating, so 409 tells the client to refresh its view.
func flowStatus(err error) int {
	switch {
	case errors.Is(err, flow.ErrInvalidDateRange), errors.Is(err, flow.ErrEmptyForm):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrNotAuthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusConflict
	}
}
