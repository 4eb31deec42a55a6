package api

import (
	"errors"
	"net/http"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	MemberID    string     `json:"memberId" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       string     `json:"notes"`
}

type AddDayRequest struct {
	DayName   string `json:"dayName" binding:"required"`
	DayNumber int    `json:"dayNumber" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

type AddExerciseRequest struct {
	ExerciseID     string   `json:"exerciseId" binding:"required"`
	Sets           int      `json:"sets" binding:"required,min=1"`
	Reps           int      `json:"reps" binding:"required,min=1"`
	Weight         *float64 `json:"weight"`
	RestSeconds    *int     `json:"restSeconds"`
	OrderInWorkout *int     `json:"orderInWorkout" binding:"required,min=1"`
	Notes          string   `json:"notes"`
}

type UpdatePlanStatusRequest struct {
	Status domain.PlanStatus `json:"status" binding:"required,oneof=active paused completed"`
}

type CompleteWorkoutRequest struct {
	Rating *int                      `json:"rating" binding:"omitempty,min=1,max=5"`
	Notes  string                    `json:"notes"`
	Logs   []CompleteWorkoutLogEntry `json:"logs" binding:"required,dive"`
}

type CompleteWorkoutLogEntry struct {
	WorkoutExerciseID string   `json:"workoutExerciseId" binding:"required"`
	SetsCompleted     int      `json:"setsCompleted" binding:"required,min=1"`
	RepsCompleted     int      `json:"repsCompleted" binding:"required,min=1"`
	WeightUsed        *float64 `json:"weightUsed"`
	Notes             string   `json:"notes"`
}

type WorkoutExerciseResponse struct {
	ID             string   `json:"id"`
	ExerciseID     string   `json:"exerciseId"`
	ExerciseName   string   `json:"exerciseName"`
	Sets           int      `json:"sets"`
	Reps           int      `json:"reps"`
	Weight         *float64 `json:"weight,omitempty"`
	RestSeconds    *int     `json:"restSeconds,omitempty"`
	OrderInWorkout int      `json:"orderInWorkout"`
	Notes          string   `json:"notes,omitempty"`
}

type WorkoutDayResponse struct {
	ID        string                    `json:"id"`
	DayName   string                    `json:"dayName"`
	DayNumber int                       `json:"dayNumber"`
	Notes     string                    `json:"notes,omitempty"`
	Exercises []WorkoutExerciseResponse `json:"exercises"`
}

type WorkoutPlanResponse struct {
	ID          string               `json:"id"`
	UUID        string               `json:"uuid"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	TrainerID   string               `json:"trainerId"`
	MemberID    string               `json:"memberId"`
	Status      domain.PlanStatus    `json:"status"`
	StartDate   *time.Time           `json:"startDate,omitempty"`
	EndDate     *time.Time           `json:"endDate,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Days        []WorkoutDayResponse `json:"days"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type ExerciseLogResponse struct {
	ID                string   `json:"id"`
	WorkoutExerciseID string   `json:"workoutExerciseId"`
	ExerciseName      string   `json:"exerciseName"`
	SetsCompleted     int      `json:"setsCompleted"`
	RepsCompleted     int      `json:"repsCompleted"`
	WeightUsed        *float64 `json:"weightUsed,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

type CompletionResponse struct {
	ID           string                `json:"id"`
	UUID         string                `json:"uuid"`
	MemberID     string                `json:"memberId"`
	PlanID       string                `json:"planId"`
	WorkoutDayID string                `json:"workoutDayId"`
	CompletedAt  time.Time             `json:"completedAt"`
	Rating       *int                  `json:"rating,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	Logs         []ExerciseLogResponse `json:"logs"`
}

// MapPlanToResponse converts a domain.WorkoutPlan (with its embedded days
// and exercises) to the response DTO.
func MapPlanToResponse(p *domain.WorkoutPlan) WorkoutPlanResponse {
	if p == nil {
		return WorkoutPlanResponse{}
	}

	days := make([]WorkoutDayResponse, len(p.Days))
	for i := range p.Days {
		d := &p.Days[i]
		exercises := make([]WorkoutExerciseResponse, len(d.Exercises))
		for j := range d.Exercises {
			e := &d.Exercises[j]
			exercises[j] = WorkoutExerciseResponse{
				ID:             e.ID.Hex(),
				ExerciseID:     e.ExerciseID.Hex(),
				ExerciseName:   e.ExerciseName,
				Sets:           e.Sets,
				Reps:           e.Reps,
				Weight:         e.Weight,
				RestSeconds:    e.RestSeconds,
				OrderInWorkout: e.OrderInWorkout,
				Notes:          e.Notes,
			}
		}
		days[i] = WorkoutDayResponse{
			ID:        d.ID.Hex(),
			DayName:   d.DayName,
			DayNumber: d.DayNumber,
			Notes:     d.Notes,
			Exercises: exercises,
		}
	}

	return WorkoutPlanResponse{
		ID:          p.ID.Hex(),
		UUID:        p.UUID,
		Name:        p.Name,
		Description: p.Description,
		TrainerID:   p.TrainerID.Hex(),
		MemberID:    p.MemberID.Hex(),
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Notes:       p.Notes,
		Days:        days,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// MapPlansToResponse converts a slice of domain.WorkoutPlan to DTOs.
func MapPlansToResponse(plans []domain.WorkoutPlan) []WorkoutPlanResponse {
	responses := make([]WorkoutPlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

// MapCompletionToResponse converts a domain.WorkoutCompletion to its DTO.
func MapCompletionToResponse(w *domain.WorkoutCompletion) CompletionResponse {
	if w == nil {
		return CompletionResponse{}
	}

	logs := make([]ExerciseLogResponse, len(w.Logs))
	for i := range w.Logs {
		l := &w.Logs[i]
		logs[i] = ExerciseLogResponse{
			ID:                l.ID.Hex(),
			WorkoutExerciseID: l.WorkoutExerciseID.Hex(),
			ExerciseName:      l.ExerciseName,
			SetsCompleted:     l.SetsCompleted,
			RepsCompleted:     l.RepsCompleted,
			WeightUsed:        l.WeightUsed,
			Notes:             l.Notes,
		}
	}

	return CompletionResponse{
		ID:           w.ID.Hex(),
		UUID:         w.UUID,
		MemberID:     w.MemberID.Hex(),
		PlanID:       w.PlanID.Hex(),
		WorkoutDayID: w.WorkoutDayID.Hex(),
		CompletedAt:  w.CompletedAt,
		Rating:       w.Rating,
		Notes:        w.Notes,
		Logs:         logs,
	}
}

// MapCompletionsToResponse converts a slice of completions to DTOs.
func MapCompletionsToResponse(completions []domain.WorkoutCompletion) []CompletionResponse {
	responses := make([]CompletionResponse, len(completions))
	for i := range completions {
		responses[i] = MapCompletionToResponse(&completions[i])
	}
	return responses
}

// --- Handler Methods: plan authoring (trainer) ---

// CreatePlan godoc
// @Summary Create a workout plan for an assigned member
// @Description Creates a draft plan. The member must currently be assigned to the authenticated trainer.
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} WorkoutPlanResponse "Plan created as draft"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Member is not assigned to this trainer"
// @Failure 404 {object} gin.H "Member or trainer not found"
// @Router /plans [post]
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	plan, err := h.workoutService.CreateWorkoutPlan(c.Request.Context(), trainerID, memberID, service.PlanCreation{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	})
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// AddDay godoc
// @Summary Add a training day to a plan
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Param day body AddDayRequest true "Day details"
// @Success 200 {object} WorkoutPlanResponse "Plan with the day appended"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Plan belongs to a different trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/days [post]
func (h *WorkoutHandler) AddDay(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	var req AddDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.workoutService.AddWorkoutDay(c.Request.Context(), planID, trainerID, req.DayName, req.DayNumber, req.Notes)
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// AddExercise godoc
// @Summary Prescribe an exercise within a training day
// @Description Appends an exercise prescription to the day; the exercise name is snapshotted at this point.
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dayId path string true "Day's ObjectID Hex"
// @Param exercise body AddExerciseRequest true "Prescription details"
// @Success 200 {object} WorkoutPlanResponse "Plan with the exercise appended"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Plan belongs to a different trainer"
// @Failure 404 {object} gin.H "Day or exercise not found"
// @Router /plans/days/{dayId}/exercises [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	dayID, err := primitive.ObjectIDFromHex(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format in URL path.")
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	if req.OrderInWorkout == nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: orderInWorkout is required.")
		return
	}

	plan, err := h.workoutService.AddExerciseToDay(c.Request.Context(), dayID, trainerID, service.ExercisePrescription{
		ExerciseID:     exerciseID,
		Sets:           req.Sets,
		Reps:           req.Reps,
		Weight:         req.Weight,
		RestSeconds:    req.RestSeconds,
		OrderInWorkout: *req.OrderInWorkout,
		Notes:          req.Notes,
	})
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// ActivatePlan godoc
// @Summary Activate a draft plan
// @Description Moves a draft plan with at least one day to active.
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} WorkoutPlanResponse "Activated plan"
// @Failure 400 {object} gin.H "Plan is not a draft or has no days"
// @Failure 403 {object} gin.H "Plan belongs to a different trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/activate [post]
func (h *WorkoutHandler) ActivatePlan(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	plan, err := h.workoutService.ActivateWorkoutPlan(c.Request.Context(), planID, trainerID)
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// UpdatePlanStatus godoc
// @Summary Pause, resume, or complete an active plan
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Param status body UpdatePlanStatusRequest true "Target status"
// @Success 200 {object} WorkoutPlanResponse "Plan with the new status"
// @Failure 400 {object} gin.H "Invalid status transition"
// @Failure 403 {object} gin.H "Plan belongs to a different trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/status [patch]
func (h *WorkoutHandler) UpdatePlanStatus(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	var req UpdatePlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.workoutService.UpdatePlanStatus(c.Request.Context(), planID, trainerID, req.Status)
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Soft-delete a plan
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} gin.H "message: Plan deleted successfully"
// @Failure 403 {object} gin.H "Plan belongs to a different trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [delete]
func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	if err := h.workoutService.DeleteWorkoutPlan(c.Request.Context(), planID, trainerID); err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

// GetMyAuthoredPlans godoc
// @Summary List plans authored by the authenticated trainer
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutPlanResponse
// @Router /plans/authored [get]
func (h *WorkoutHandler) GetMyAuthoredPlans(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	plans, err := h.workoutService.GetPlansByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}

	if plans == nil {
		c.JSON(http.StatusOK, []WorkoutPlanResponse{})
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetPlanByID godoc
// @Summary Get a plan by id, days sorted for display
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [get]
func (h *WorkoutHandler) GetPlanByID(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	plan, err := h.workoutService.GetPlanByID(c.Request.Context(), planID)
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// --- Handler Methods: plan consumption (member) ---

// GetMyPlans godoc
// @Summary List the authenticated member's plans
// @Description Pass ?active=true to see only active plans.
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active plans"
// @Success 200 {array} WorkoutPlanResponse
// @Router /plans/mine [get]
func (h *WorkoutHandler) GetMyPlans(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var (
		plans []domain.WorkoutPlan
		err   error
	)
	if c.Query("active") == "true" {
		plans, err = h.workoutService.GetActivePlansByMember(c.Request.Context(), memberID)
	} else {
		plans, err = h.workoutService.GetPlansByMember(c.Request.Context(), memberID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}

	if plans == nil {
		c.JSON(http.StatusOK, []WorkoutPlanResponse{})
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// CompleteWorkout godoc
// @Summary Record a completed workout day
// @Description Logs the member's performed exercises for one day of their plan.
// @Tags Completions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dayId path string true "Workout day's ObjectID Hex"
// @Param completion body CompleteWorkoutRequest true "Performed exercises and optional rating"
// @Success 201 {object} CompletionResponse "Completion recorded"
// @Failure 400 {object} gin.H "Invalid rating or log entries"
// @Failure 403 {object} gin.H "Plan belongs to a different member"
// @Failure 404 {object} gin.H "Day or prescribed exercise not found"
// @Router /workouts/days/{dayId}/complete [post]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	dayID, err := primitive.ObjectIDFromHex(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format in URL path.")
		return
	}

	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entries := make([]service.LogEntry, len(req.Logs))
	for i, log := range req.Logs {
		workoutExerciseID, err := primitive.ObjectIDFromHex(log.WorkoutExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid workout exercise ID format in logs.")
			return
		}
		entries[i] = service.LogEntry{
			WorkoutExerciseID: workoutExerciseID,
			SetsCompleted:     log.SetsCompleted,
			RepsCompleted:     log.RepsCompleted,
			WeightUsed:        log.WeightUsed,
			Notes:             log.Notes,
		}
	}

	completion, err := h.workoutService.CompleteWorkout(c.Request.Context(), memberID, dayID, req.Rating, req.Notes, entries)
	if err != nil {
		mapWorkoutServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapCompletionToResponse(completion))
}

// GetMyCompletions godoc
// @Summary List the authenticated member's completion history
// @Description Optional from/to query params (RFC 3339) bound the range.
// @Tags Completions
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Success 200 {array} CompletionResponse
// @Failure 400 {object} gin.H "Invalid time format"
// @Router /workouts/completions [get]
func (h *WorkoutHandler) GetMyCompletions(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'from' time format, expected RFC 3339.")
			return
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'to' time format, expected RFC 3339.")
			return
		}
		to = &t
	}

	completions, err := h.workoutService.GetCompletionHistory(c.Request.Context(), memberID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve completions.")
		return
	}

	if completions == nil {
		c.JSON(http.StatusOK, []CompletionResponse{})
		return
	}
	c.JSON(http.StatusOK, MapCompletionsToResponse(completions))
}

func mapWorkoutServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrDayNotFound),
		errors.Is(err, service.ErrWorkoutExerciseNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied),
		errors.Is(err, service.ErrMemberNotAssigned),
		errors.Is(err, service.ErrWorkoutNotOwned):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotDraft),
		errors.Is(err, service.ErrPlanNeedsDay),
		errors.Is(err, service.ErrPlanBadTransition),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidSetsReps):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
