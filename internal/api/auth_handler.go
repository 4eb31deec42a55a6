package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterMemberRequest struct {
	Name            string     `json:"name" binding:"required"`
	Email           string     `json:"email" binding:"required,email"`
	Password        string     `json:"password" binding:"required,min=8"`
	Phone           string     `json:"phone" binding:"required"`
	MembershipStart *time.Time `json:"membershipStart"`
	MembershipEnd   *time.Time `json:"membershipEnd"`
}

type RegisterTrainerRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	Specialty      string   `json:"specialty"`
	Certifications []string `json:"certifications"`
	HourlyRate     float64  `json:"hourlyRate" binding:"required,gt=0"`
}

// MemberResponse excludes sensitive info like password hash.
type MemberResponse struct {
	ID                string                  `json:"id"`
	UUID              string                  `json:"uuid"`
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Phone             string                  `json:"phone"`
	MembershipStart   *time.Time              `json:"membershipStart,omitempty"`
	MembershipEnd     *time.Time              `json:"membershipEnd,omitempty"`
	AssignedTrainerID *string                 `json:"assignedTrainerId,omitempty"`
	AssignmentStatus  domain.AssignmentStatus `json:"assignmentStatus"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

type TrainerResponse struct {
	ID             string    `json:"id"`
	UUID           string    `json:"uuid"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialty      string    `json:"specialty,omitempty"`
	Certifications []string  `json:"certifications,omitempty"`
	HourlyRate     float64   `json:"hourlyRate"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	ID    string      `json:"id"`
	Role  domain.Role `json:"role"`
}

// --- Handler Methods ---

// RegisterMember godoc
// @Summary Register a new gym member
// @Description Creates a new member account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param member body RegisterMemberRequest true "Registration details"
// @Success 201 {object} MemberResponse "Member created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email or phone already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register/member [post]
func (h *AuthHandler) RegisterMember(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	member, err := h.authService.RegisterMember(c.Request.Context(), service.MemberRegistration{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		MembershipStart: req.MembershipStart,
		MembershipEnd:   req.MembershipEnd,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) || errors.Is(err, service.ErrPhoneAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapMemberToResponse(member))
}

// RegisterTrainer godoc
// @Summary Register a new trainer
// @Description Creates a new trainer account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param trainer body RegisterTrainerRequest true "Registration details"
// @Success 201 {object} TrainerResponse "Trainer created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register/trainer [post]
func (h *AuthHandler) RegisterTrainer(c *gin.Context) {
	var req RegisterTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainer, err := h.authService.RegisterTrainer(c.Request.Context(), service.TrainerRegistration{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Specialty:      req.Specialty,
		Certifications: req.Certifications,
		HourlyRate:     req.HourlyRate,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapTrainerToResponse(trainer))
}

// Login godoc
// @Summary Log in a member, trainer, or admin
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, principal, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		ID:    principal.ID,
		Role:  principal.Role,
	})
}

// MapMemberToResponse converts a domain Member to a MemberResponse DTO.
func MapMemberToResponse(member *domain.Member) MemberResponse {
	if member == nil {
		return MemberResponse{}
	}

	resp := MemberResponse{
		ID:               member.ID.Hex(),
		UUID:             member.UUID,
		Name:             member.Name,
		Email:            member.Email,
		Phone:            member.Phone,
		MembershipStart:  member.MembershipStart,
		MembershipEnd:    member.MembershipEnd,
		AssignmentStatus: member.AssignmentStatus,
		CreatedAt:        member.CreatedAt,
		UpdatedAt:        member.UpdatedAt,
	}

	if member.HasTrainer() {
		trainerIDHex := member.AssignedTrainerID.Hex()
		resp.AssignedTrainerID = &trainerIDHex
	}

	return resp
}

// MapMembersToResponse converts a slice of domain.Member to DTOs.
func MapMembersToResponse(members []domain.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = MapMemberToResponse(&members[i])
	}
	return responses
}

// MapTrainerToResponse converts a domain Trainer to a TrainerResponse DTO.
func MapTrainerToResponse(trainer *domain.Trainer) TrainerResponse {
	if trainer == nil {
		return TrainerResponse{}
	}
	return TrainerResponse{
		ID:             trainer.ID.Hex(),
		UUID:           trainer.UUID,
		Name:           trainer.Name,
		Email:          trainer.Email,
		Specialty:      trainer.Specialty,
		Certifications: trainer.Certifications,
		HourlyRate:     trainer.HourlyRate,
		Active:         trainer.Active,
		CreatedAt:      trainer.CreatedAt,
		UpdatedAt:      trainer.UpdatedAt,
	}
}

// MapTrainersToResponse converts a slice of domain.Trainer to DTOs.
func MapTrainersToResponse(trainers []domain.Trainer) []TrainerResponse {
	responses := make([]TrainerResponse, len(trainers))
	for i := range trainers {
		responses[i] = MapTrainerToResponse(&trainers[i])
	}
	return responses
}
