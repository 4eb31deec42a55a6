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

type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

type ExerciseRequest struct {
	Name         string                  `json:"name" binding:"required"`
	Description  string                  `json:"description"`
	Category     domain.ExerciseCategory `json:"category" binding:"required,oneof=strength cardio flexibility balance functional"`
	MuscleGroup  domain.MuscleGroup      `json:"muscleGroup" binding:"required,oneof=chest back shoulders arms legs core full_body"`
	Difficulty   domain.Difficulty       `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Instructions string                  `json:"instructions"`
	Equipment    string                  `json:"equipment"`
}

type ExerciseResponse struct {
	ID           string                  `json:"id"`
	UUID         string                  `json:"uuid"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description,omitempty"`
	Category     domain.ExerciseCategory `json:"category"`
	MuscleGroup  domain.MuscleGroup      `json:"muscleGroup"`
	Difficulty   domain.Difficulty       `json:"difficulty"`
	Instructions string                  `json:"instructions,omitempty"`
	Equipment    string                  `json:"equipment,omitempty"`
	MediaURLs    []string                `json:"mediaUrls,omitempty"`
	IsCustom     bool                    `json:"isCustom"`
	TrainerID    *string                 `json:"trainerId,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

type MediaUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type MediaDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// MapExerciseToResponse converts a domain.Exercise to its DTO.
func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	if e == nil {
		return ExerciseResponse{}
	}

	resp := ExerciseResponse{
		ID:           e.ID.Hex(),
		UUID:         e.UUID,
		Name:         e.Name,
		Description:  e.Description,
		Category:     e.Category,
		MuscleGroup:  e.MuscleGroup,
		Difficulty:   e.Difficulty,
		Instructions: e.Instructions,
		Equipment:    e.Equipment,
		MediaURLs:    e.MediaURLs,
		IsCustom:     e.IsCustom,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.TrainerID != nil && *e.TrainerID != primitive.NilObjectID {
		trainerIDHex := e.TrainerID.Hex()
		resp.TrainerID = &trainerIDHex
	}

	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func (r ExerciseRequest) toFields() service.ExerciseFields {
	return service.ExerciseFields{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		MuscleGroup:  r.MuscleGroup,
		Difficulty:   r.Difficulty,
		Instructions: r.Instructions,
		Equipment:    r.Equipment,
	}
}

// mutationActor resolves who may modify the exercise at exerciseID.
// Catalog exercises are admin-only; the admin has no ObjectID, so the
// service receives the nil id and skips its ownership check. Custom
// exercises belong to their trainer, whose id is handed to the service
// for the ownership check. Aborts the request itself on failure.
func (h *ExerciseHandler) mutationActor(c *gin.Context, exerciseID primitive.ObjectID) (primitive.ObjectID, bool) {
	role, ok := tokenRole(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		mapExerciseServiceError(c, err)
		return primitive.NilObjectID, false
	}

	if !exercise.IsCustom {
		if role != domain.RoleAdmin {
			abortWithError(c, http.StatusForbidden, "Only an admin can modify catalog exercises.")
			return primitive.NilObjectID, false
		}
		return primitive.NilObjectID, true
	}

	if role != domain.RoleTrainer {
		abortWithError(c, http.StatusForbidden, "Custom exercises can only be modified by their owning trainer.")
		return primitive.NilObjectID, false
	}
	return objectIDFromToken(c)
}

// --- Handler Methods ---

// CreateCatalogExercise godoc
// @Summary Create a shared catalog exercise
// @Description Admin only. Catalog names are unique case-insensitively.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 409 {object} gin.H "Catalog exercise with this name already exists"
// @Router /exercises/catalog [post]
func (h *ExerciseHandler) CreateCatalogExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateCatalogExercise(c.Request.Context(), req.toFields())
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// CreateCustomExercise godoc
// @Summary Create a private custom exercise
// @Description The exercise is visible only to the authenticated trainer.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /exercises/custom [post]
func (h *ExerciseHandler) CreateCustomExercise(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateCustomExercise(c.Request.Context(), trainerID, req.toFields())
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Description Custom exercises can only be updated by their owning trainer; catalog exercises by an admin.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise's ObjectID Hex"
// @Param exercise body ExerciseRequest true "Updated exercise fields"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Not the owning trainer"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in URL path.")
		return
	}

	actorID, ok := h.mutationActor(c, exerciseID)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), exerciseID, actorID, req.toFields())
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Soft-delete an exercise
// @Description Existing plan prescriptions keep their snapshotted name.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise's ObjectID Hex"
// @Success 200 {object} gin.H "message: Exercise deleted successfully"
// @Failure 403 {object} gin.H "Not the owning trainer"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in URL path.")
		return
	}

	actorID, ok := h.mutationActor(c, exerciseID)
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), exerciseID, actorID); err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted successfully"})
}

// GetExerciseByID godoc
// @Summary Get an exercise by id
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise's ObjectID Hex"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId} [get]
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in URL path.")
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Description Supports one of category, muscleGroup, difficulty, or search as a filter. With no filter the full catalog is returned.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param muscleGroup query string false "Filter by muscle group"
// @Param difficulty query string false "Filter by difficulty"
// @Param search query string false "Case-insensitive name substring"
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		exercises []domain.Exercise
		err       error
	)
	switch {
	case c.Query("category") != "":
		exercises, err = h.exerciseService.FilterByCategory(ctx, domain.ExerciseCategory(c.Query("category")))
	case c.Query("muscleGroup") != "":
		exercises, err = h.exerciseService.FilterByMuscleGroup(ctx, domain.MuscleGroup(c.Query("muscleGroup")))
	case c.Query("difficulty") != "":
		exercises, err = h.exerciseService.FilterByDifficulty(ctx, domain.Difficulty(c.Query("difficulty")))
	case c.Query("search") != "":
		exercises, err = h.exerciseService.SearchByName(ctx, c.Query("search"))
	default:
		exercises, err = h.exerciseService.ListCatalog(ctx)
	}
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	if exercises == nil {
		c.JSON(http.StatusOK, []ExerciseResponse{})
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetMyCustomExercises godoc
// @Summary List the authenticated trainer's custom exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /exercises/custom [get]
func (h *ExerciseHandler) GetMyCustomExercises(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.ListCustomByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve custom exercises.")
		return
	}

	if exercises == nil {
		c.JSON(http.StatusOK, []ExerciseResponse{})
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GenerateMediaUploadURL godoc
// @Summary Get a pre-signed upload URL for exercise media
// @Description Returns a temporary PUT URL; the object key is recorded on the exercise.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise's ObjectID Hex"
// @Param contentType query string false "Content type of the upload"
// @Success 200 {object} MediaUploadResponse
// @Failure 403 {object} gin.H "Not the owning trainer"
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 500 {object} gin.H "Could not generate upload URL"
// @Router /exercises/{exerciseId}/media/upload-url [post]
func (h *ExerciseHandler) GenerateMediaUploadURL(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in URL path.")
		return
	}

	actorID, ok := h.mutationActor(c, exerciseID)
	if !ok {
		return
	}

	upload, err := h.exerciseService.GenerateMediaUploadURL(c.Request.Context(), exerciseID, actorID, c.Query("contentType"))
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MediaUploadResponse{
		UploadURL: upload.UploadURL,
		ObjectKey: upload.ObjectKey,
	})
}

// GetMediaDownloadURL godoc
// @Summary Get a pre-signed download URL for exercise media
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise's ObjectID Hex"
// @Param key query string true "Object key previously attached to the exercise"
// @Success 200 {object} MediaDownloadResponse
// @Failure 404 {object} gin.H "Exercise or media object not found"
// @Failure 500 {object} gin.H "Could not generate download URL"
// @Router /exercises/{exerciseId}/media/download-url [get]
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in URL path.")
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'key' is required.")
		return
	}

	downloadURL, err := h.exerciseService.GetMediaDownloadURL(c.Request.Context(), exerciseID, objectKey)
	if err != nil {
		mapExerciseServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MediaDownloadResponse{DownloadURL: downloadURL})
}

func mapExerciseServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateExerciseName):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
