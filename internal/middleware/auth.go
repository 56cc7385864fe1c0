package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware creates a middleware for JWT authentication
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			user, err := userService.ValidateJWT(parts[1])
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves the session user when a valid Bearer
// token is present but lets anonymous requests through; routes that
// serve both states read the user with GetUser.
func OptionalAuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if user, err := userService.ValidateJWT(parts[1]); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey, *user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// WithUser returns a context carrying the user; used by tests and the
// WebSocket handler, which authenticates outside the middleware chain.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// ValidateWebSocketToken validates a JWT passed as a query parameter
func ValidateWebSocketToken(token string, userService *services.UserService) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("token required")
	}
	return userService.ValidateJWT(token)
}
