package api

import (
	"errors"
	"net/http"

	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type UpdateTrainerProfileRequest struct {
	Name           string   `json:"name" binding:"required"`
	Specialty      string   `json:"specialty"`
	Certifications []string `json:"certifications"`
	HourlyRate     float64  `json:"hourlyRate" binding:"required,gt=0"`
	Active         bool     `json:"active"`
}

type TrainerAvailabilityResponse struct {
	TrainerID string `json:"trainerId"`
	Available bool   `json:"available"`
}

// --- Handler Methods ---

// ListTrainers godoc
// @Summary List all trainers
// @Description Directory of trainers members can browse before requesting one.
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TrainerResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /trainers [get]
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.trainerService.ListTrainers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list trainers.")
		return
	}

	if trainers == nil {
		c.JSON(http.StatusOK, []TrainerResponse{})
		return
	}
	c.JSON(http.StatusOK, MapTrainersToResponse(trainers))
}

// GetTrainerByID godoc
// @Summary Get a trainer by id
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer's ObjectID Hex"
// @Success 200 {object} TrainerResponse
// @Failure 400 {object} gin.H "Invalid trainer ID format"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /trainers/{trainerId} [get]
func (h *TrainerHandler) GetTrainerByID(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in URL path.")
		return
	}

	trainer, err := h.trainerService.GetTrainerByID(c.Request.Context(), trainerID)
	if err != nil {
		mapTrainerServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GetTrainerAvailability godoc
// @Summary Check whether a trainer currently has no assigned members
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer's ObjectID Hex"
// @Success 200 {object} TrainerAvailabilityResponse
// @Failure 400 {object} gin.H "Invalid trainer ID format"
// @Router /trainers/{trainerId}/availability [get]
func (h *TrainerHandler) GetTrainerAvailability(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in URL path.")
		return
	}

	available, err := h.trainerService.HasCapacity(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check trainer availability.")
		return
	}

	c.JSON(http.StatusOK, TrainerAvailabilityResponse{
		TrainerID: trainerID.Hex(),
		Available: available,
	})
}

// UpdateMyProfile godoc
// @Summary Update the authenticated trainer's profile
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateTrainerProfileRequest true "Updated profile fields"
// @Success 200 {object} TrainerResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /trainer/me [put]
func (h *TrainerHandler) UpdateMyProfile(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainer, err := h.trainerService.UpdateProfile(c.Request.Context(), trainerID, service.TrainerProfileUpdate{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Certifications: req.Certifications,
		HourlyRate:     req.HourlyRate,
		Active:         req.Active,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidHourlyRate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		mapTrainerServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GetMyMembers godoc
// @Summary Get the authenticated trainer's assigned members
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MemberResponse "List of assigned members"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /trainer/members [get]
func (h *TrainerHandler) GetMyMembers(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	members, err := h.trainerService.GetAssignedMembers(c.Request.Context(), trainerID)
	if err != nil {
		mapTrainerServiceError(c, err)
		return
	}

	if members == nil {
		c.JSON(http.StatusOK, []MemberResponse{})
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// DeleteTrainer godoc
// @Summary Soft-delete a trainer
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer's ObjectID Hex"
// @Success 200 {object} gin.H "message: Trainer deleted successfully"
// @Failure 400 {object} gin.H "Invalid trainer ID format"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /trainers/{trainerId} [delete]
func (h *TrainerHandler) DeleteTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in URL path.")
		return
	}

	if err := h.trainerService.DeleteTrainer(c.Request.Context(), trainerID); err != nil {
		mapTrainerServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trainer deleted successfully"})
}

// RestoreTrainer godoc
// @Summary Restore a soft-deleted trainer
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer's ObjectID Hex"
// @Success 200 {object} TrainerResponse "Restored trainer"
// @Failure 400 {object} gin.H "Invalid trainer ID format"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "No deleted trainer with this id"
// @Router /trainers/{trainerId}/restore [post]
func (h *TrainerHandler) RestoreTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in URL path.")
		return
	}

	trainer, err := h.trainerService.RestoreTrainer(c.Request.Context(), trainerID)
	if err != nil {
		mapTrainerServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

func mapTrainerServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTrainerNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
}
