package api

import (
	"net/http"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	memberService service.MemberService,
	trainerService service.TrainerService,
	assignmentService service.AssignmentService,
	workoutService service.WorkoutService,
	exerciseService service.ExerciseService,
) {

	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	trainerHandler := NewTrainerHandler(trainerService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register/member", authHandler.RegisterMember)
			authGroup.POST("/register/trainer", authHandler.RegisterTrainer)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := tokenUserID(c)
			if !ok {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := tokenRole(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		// --- Member Routes ---
		memberGroup := protected.Group("/members")
		{
			memberGroup.GET("/me", RoleMiddleware(domain.RoleMember), memberHandler.GetMyProfile)
			memberGroup.PUT("/me", RoleMiddleware(domain.RoleMember), memberHandler.UpdateMyProfile)

			memberGroup.GET("", RoleMiddleware(domain.RoleAdmin), memberHandler.ListMembers)
			memberGroup.GET("/:memberId", RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer), memberHandler.GetMemberByID)
			memberGroup.DELETE("/:memberId", RoleMiddleware(domain.RoleAdmin), memberHandler.DeleteMember)
			memberGroup.POST("/:memberId/restore", RoleMiddleware(domain.RoleAdmin), memberHandler.RestoreMember)
		}

		// --- Trainer Routes ---
		// /trainers is the public directory, /trainer the authenticated
		// trainer's own surface.
		trainersGroup := protected.Group("/trainers")
		{
			trainersGroup.GET("", trainerHandler.ListTrainers)
			trainersGroup.GET("/:trainerId", trainerHandler.GetTrainerByID)
			trainersGroup.GET("/:trainerId/availability", trainerHandler.GetTrainerAvailability)

			trainersGroup.DELETE("/:trainerId", RoleMiddleware(domain.RoleAdmin), trainerHandler.DeleteTrainer)
			trainersGroup.POST("/:trainerId/restore", RoleMiddleware(domain.RoleAdmin), trainerHandler.RestoreTrainer)
		}

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.PUT("/me", trainerHandler.UpdateMyProfile)
			trainerGroup.GET("/members", trainerHandler.GetMyMembers)
		}

		// --- Assignment Request Routes ---
		assignmentGroup := protected.Group("/assignments")
		{
			assignmentGroup.POST("/requests", RoleMiddleware(domain.RoleMember), assignmentHandler.RequestTrainer)
			assignmentGroup.GET("/requests/mine", RoleMiddleware(domain.RoleMember), assignmentHandler.GetMyRequests)
			assignmentGroup.POST("/requests/:requestId/cancel", RoleMiddleware(domain.RoleMember), assignmentHandler.CancelRequest)
			assignmentGroup.DELETE("/trainer", RoleMiddleware(domain.RoleMember), assignmentHandler.RemoveTrainer)

			assignmentGroup.GET("/requests/incoming", RoleMiddleware(domain.RoleTrainer), assignmentHandler.GetIncomingRequests)
			assignmentGroup.GET("/requests/incoming/count", RoleMiddleware(domain.RoleTrainer), assignmentHandler.CountIncomingRequests)
			assignmentGroup.GET("/requests/:requestId", assignmentHandler.GetRequestByID)
			assignmentGroup.POST("/requests/:requestId/accept", RoleMiddleware(domain.RoleTrainer), assignmentHandler.AcceptRequest)
			assignmentGroup.POST("/requests/:requestId/reject", RoleMiddleware(domain.RoleTrainer), assignmentHandler.RejectRequest)
		}

		// --- Workout Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", RoleMiddleware(domain.RoleTrainer), workoutHandler.CreatePlan)
			planGroup.GET("/authored", RoleMiddleware(domain.RoleTrainer), workoutHandler.GetMyAuthoredPlans)
			planGroup.POST("/:planId/days", RoleMiddleware(domain.RoleTrainer), workoutHandler.AddDay)
			planGroup.POST("/days/:dayId/exercises", RoleMiddleware(domain.RoleTrainer), workoutHandler.AddExercise)
			planGroup.POST("/:planId/activate", RoleMiddleware(domain.RoleTrainer), workoutHandler.ActivatePlan)
			planGroup.PATCH("/:planId/status", RoleMiddleware(domain.RoleTrainer), workoutHandler.UpdatePlanStatus)
			planGroup.DELETE("/:planId", RoleMiddleware(domain.RoleTrainer), workoutHandler.DeletePlan)

			planGroup.GET("/mine", RoleMiddleware(domain.RoleMember), workoutHandler.GetMyPlans)
			planGroup.GET("/:planId", workoutHandler.GetPlanByID)
		}

		// --- Workout Completion Routes ---
		workoutGroup := protected.Group("/workouts")
		workoutGroup.Use(RoleMiddleware(domain.RoleMember))
		{
			workoutGroup.POST("/days/:dayId/complete", workoutHandler.CompleteWorkout)
			workoutGroup.GET("/completions", workoutHandler.GetMyCompletions)
		}

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)

			exerciseGroup.POST("/catalog", RoleMiddleware(domain.RoleAdmin), exerciseHandler.CreateCatalogExercise)
			exerciseGroup.POST("/custom", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateCustomExercise)
			exerciseGroup.GET("/custom", RoleMiddleware(domain.RoleTrainer), exerciseHandler.GetMyCustomExercises)

			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExerciseByID)
			exerciseGroup.PUT("/:exerciseId", RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer), exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/media/upload-url", RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer), exerciseHandler.GenerateMediaUploadURL)
			exerciseGroup.GET("/:exerciseId/media/download-url", exerciseHandler.GetMediaDownloadURL)
		}
	}
}
