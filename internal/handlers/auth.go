package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// SignupRequest represents the request body for creating a profile
type SignupRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// AuthResponse carries the profile and its session token
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Signup(r.Context(), models.User{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
		Role:   req.Role,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respondError(w, "User already exists", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to sign up user")
		respondError(w, "Failed to sign up", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{User: *user, Token: token}, http.StatusCreated)
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Name string `json:"name"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to log in user")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{User: *user, Token: token}, http.StatusOK)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok {
		h.userService.Logout(user)
	}
	w.WriteHeader(http.StatusNoContent)
}
