package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const jwtExpDays = 365

// UserService handles signup, login and profile updates. There is no
// password verification anywhere: login is a profile lookup by display
// name, exactly as the product defines it.
type UserService struct {
	profileRepo *repository.ProfileRepository
	eventLog    *EventLogService
	jwtSecret   string
}

// NewUserService creates a new user service
func NewUserService(profileRepo *repository.ProfileRepository, eventLog *EventLogService, jwtSecret string) *UserService {
	return &UserService{
		profileRepo: profileRepo,
		eventLog:    eventLog,
		jwtSecret:   jwtSecret,
	}
}

// Signup registers a new profile. Duplicate emails are rejected.
func (s *UserService) Signup(ctx context.Context, user models.User) (*models.User, string, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" || user.Email == "" {
		return nil, "", fmt.Errorf("name and email are required")
	}
	if user.Role == "" {
		user.Role = models.RoleParent
	}
	if user.Role != models.RoleParent && user.Role != models.RoleMonitor {
		return nil, "", fmt.Errorf("invalid role %q", user.Role)
	}

	exists, err := s.profileRepo.EmailExists(ctx, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		s.eventLog.Log(LogCategorySignup, map[string]any{
			"status": "ERROR", "error": "User already exists", "email": user.Email,
		})
		return nil, "", ErrUserExists
	}

	if err := s.profileRepo.Create(ctx, &user); err != nil {
		s.eventLog.Log(LogCategorySignup, map[string]any{
			"status": "ERROR", "error": err.Error(), "email": user.Email,
		})
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.GenerateJWT(&user)
	if err != nil {
		return nil, "", err
	}

	s.eventLog.Log(LogCategorySignup, map[string]any{
		"status": "OK", "name": user.Name, "email": user.Email,
	})
	return &user, token, nil
}

// Login looks up a profile by display name. No credentials are checked.
func (s *UserService) Login(ctx context.Context, name string) (*models.User, string, error) {
	user, err := s.profileRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		s.eventLog.Log(LogCategoryLogin, map[string]any{
			"status": "ERROR", "error": "Invalid credentials", "name": name,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	s.eventLog.Log(LogCategoryLogin, map[string]any{
		"status": "OK", "user": user.Name, "email": user.Email,
	})
	return user, token, nil
}

// Logout only records the event; tokens are stateless
func (s *UserService) Logout(user models.User) {
	s.eventLog.Log(LogCategoryLogout, map[string]any{
		"user": user.Name, "email": user.Email,
	})
}

// UpdateProfile changes name and avatar for the profile with the given email
func (s *UserService) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	if err := s.profileRepo.Update(ctx, &user); err != nil {
		s.eventLog.Log(LogCategoryUpdates, map[string]any{
			"action": "Personal Data Update", "status": "ERROR",
			"user": user.Name, "email": user.Email, "error": err.Error(),
		})
		return nil, err
	}

	saved, err := s.profileRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	s.eventLog.Log(LogCategoryUpdates, map[string]any{
		"action": "Personal Data Update", "status": "OK",
		"user": saved.Name, "email": saved.Email,
	})
	return saved, nil
}

// GenerateJWT issues a signed token carrying the profile identity
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"exp":   time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the identity it carries
func (s *UserService) ValidateJWT(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if email == "" {
		return nil, fmt.Errorf("email not found in token")
	}
	return &models.User{Email: email, Name: name, Role: role}, nil
}
