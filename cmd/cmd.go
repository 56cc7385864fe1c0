package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camp-hub-backend/internal/config"
	"camp-hub-backend/internal/db"
	"camp-hub-backend/internal/feed"
	"camp-hub-backend/internal/flow"
	"camp-hub-backend/internal/handlers"
	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/repository"
	"camp-hub-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load .env before the config layer reads the environment
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Ensure schema
	if err := db.CreateSchema(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database schema")
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(pool)
	campRepo := repository.NewCampRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	communityRepo := repository.NewCommunityRepository(pool)
	logRepo := repository.NewLogRepository(pool)

	// Initialize services
	eventLog := services.NewEventLogService(logRepo)
	userService := services.NewUserService(profileRepo, eventLog, cfg.JWT.Secret)
	campService := services.NewCampService(campRepo)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, eventLog)
	reviewService := services.NewReviewService(reviewRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	feedHub := services.NewFeedHub()

	// Media storage is optional; without a bucket inline data URIs are
	// kept as-is in the feed rows
	var imageStore handlers.ImageStorer
	if cfg.Media.Bucket != "" {
		mediaService, err := services.NewMediaService(cfg.Media)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create media service")
		}
		imageStore = mediaService
	} else {
		log.Warn().Msg("No media bucket configured, storing inline images verbatim")
	}

	// Warm the community feed from the database
	feedStore := feed.NewStore(communityRepo)
	if err := feedStore.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load community feed")
	}

	// Per-session navigation flows
	flowManager := flow.NewManager(enrollmentService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	campHandler := handlers.NewCampHandler(campService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	profileHandler := handlers.NewProfileHandler(userService)
	flowHandler := handlers.NewFlowHandler(flowManager, campService)
	communityHandler := handlers.NewCommunityHandler(feedStore, imageStore, feedHub)
	logsHandler := handlers.NewLogsHandler(eventLog)
	wsHandler := handlers.NewWebSocketHandler(feedHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware(cfg.Server.CORSOrigin))

	// Routes
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/camps", campHandler.List)
		r.Get("/reviews", reviewHandler.List)

		r.Get("/enrollments", enrollmentHandler.List)
		r.Post("/enrollments", enrollmentHandler.Create)
		r.Delete("/enrollments/{id}", enrollmentHandler.Delete)

		// Navigation flow: sessions may stay anonymous, so auth is
		// resolved per request instead of enforced
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(userService))
			r.Get("/flow", flowHandler.Get)
			r.Post("/flow/{intent}", flowHandler.Intent)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/profile", profileHandler.Update)
			r.Post("/reviews", reviewHandler.Create)
			r.Put("/favorites", favoriteHandler.Toggle)
			r.Get("/favorites", favoriteHandler.List)
			r.Get("/logs", logsHandler.List)

			r.Route("/community", func(r chi.Router) {
				r.Get("/feed", communityHandler.GetFeed)
				r.Post("/posts", communityHandler.CreatePost)
				r.Delete("/posts/{id}", communityHandler.DeletePost)
				r.Post("/posts/{id}/like", communityHandler.Like)
				r.Post("/posts/{id}/comments", communityHandler.AddComment)
				r.Post("/posts/{id}/vote", communityHandler.Vote)
				r.Post("/stories", communityHandler.CreateStory)
				r.Post("/stories/{id}/react", communityHandler.React)
				r.Post("/stories/{id}/viewed", communityHandler.MarkViewed)
			})
		})
	})

	// WebSocket route
	r.Get("/ws/community", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS for the configured origin
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
