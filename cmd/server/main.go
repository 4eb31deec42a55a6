package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironloop/gym-app/internal/api"
	"ironloop/gym-app/internal/config"
	"ironloop/gym-app/internal/logger"
	"ironloop/gym-app/internal/repository/mongo"
	"ironloop/gym-app/internal/service"
	"ironloop/gym-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Gym Management API
// @version 1.0
// @description API for gym members, trainers, workout plans, and the exercise catalog.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatalf("Could not load config: %v", err)
	}

	logger.Init(cfg.Log.Level)
	logger.Info().Msg("Starting gym app server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		logger.Info().Msg("Disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info().Str("database", cfg.Database.Name).Msg("Database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureMemberIndexes(ctx, appDB.Collection("members"))
		mongo.EnsureTrainerIndexes(ctx, appDB.Collection("trainers"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureRequestIndexes(ctx, appDB.Collection("assignment_requests"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureCompletionIndexes(ctx, appDB.Collection("workout_completions"))
		logger.Info().Msg("Index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logger.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	memberRepo := mongo.NewMongoMemberRepository(appDB)
	trainerRepo := mongo.NewMongoTrainerRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	requestRepo := mongo.NewMongoRequestRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	sessions := mongo.NewSessionRunner(dbClient)

	// --- Initialize Services ---
	authService := service.NewAuthService(memberRepo, trainerRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Admin.Email, cfg.Admin.Password)
	memberService := service.NewMemberService(memberRepo)
	trainerService := service.NewTrainerService(trainerRepo, memberRepo)
	assignmentService := service.NewAssignmentService(memberRepo, trainerRepo, requestRepo, sessions)
	workoutService := service.NewWorkoutService(planRepo, completionRepo, memberRepo, trainerRepo, exerciseRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, trainerRepo, fileStorage)

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.GinLogger(), logger.GinRecovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, memberService, trainerService, assignmentService, workoutService, exerciseService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info().Msg("Server exiting")
}
