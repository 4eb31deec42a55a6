package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- DTOs ---

type RequestTrainerRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
	Message   string `json:"message"`
}

type RespondToRequestRequest struct {
	Response string `json:"response"`
}

type AssignmentRequestResponse struct {
	ID              string               `json:"id"`
	UUID            string               `json:"uuid"`
	MemberID        string               `json:"memberId"`
	TrainerID       string               `json:"trainerId"`
	Status          domain.RequestStatus `json:"status"`
	Message         string               `json:"message,omitempty"`
	TrainerResponse string               `json:"trainerResponse,omitempty"`
	RequestedAt     time.Time            `json:"requestedAt"`
	RespondedAt     *time.Time           `json:"respondedAt,omitempty"`
}

// MapRequestToResponse converts a domain.TrainerAssignmentRequest to its DTO.
func MapRequestToResponse(r *domain.TrainerAssignmentRequest) AssignmentRequestResponse {
	if r == nil {
		return AssignmentRequestResponse{}
	}
	return AssignmentRequestResponse{
		ID:              r.ID.Hex(),
		UUID:            r.UUID,
		MemberID:        r.MemberID.Hex(),
		TrainerID:       r.TrainerID.Hex(),
		Status:          r.Status,
		Message:         r.Message,
		TrainerResponse: r.TrainerResponse,
		RequestedAt:     r.RequestedAt,
		RespondedAt:     r.RespondedAt,
	}
}

// MapRequestsToResponse converts a slice of assignment requests to DTOs.
func MapRequestsToResponse(requests []domain.TrainerAssignmentRequest) []AssignmentRequestResponse {
	responses := make([]AssignmentRequestResponse, len(requests))
	for i := range requests {
		responses[i] = MapRequestToResponse(&requests[i])
	}
	return responses
}

// --- Handler Methods ---

// RequestTrainer godoc
// @Summary Request a trainer
// @Description Opens a pending assignment request from the authenticated member to a trainer.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RequestTrainerRequest true "Target trainer and optional message"
// @Success 201 {object} AssignmentRequestResponse "Request created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Member or trainer not found"
// @Failure 409 {object} gin.H "Member already pending or already assigned"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /assignments/requests [post]
func (h *AssignmentHandler) RequestTrainer(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req RequestTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	request, err := h.assignmentService.RequestTrainer(c.Request.Context(), memberID, trainerID, req.Message)
	if err != nil {
		mapAssignmentServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapRequestToResponse(request))
}

// AcceptRequest godoc
// @Summary Accept a pending assignment request
// @Description The authenticated trainer accepts a request addressed to them, taking the member on.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request's ObjectID Hex"
// @Param response body RespondToRequestRequest false "Optional response note"
// @Success 200 {object} AssignmentRequestResponse "Request accepted"
// @Failure 400 {object} gin.H "Request already responded to"
// @Failure 403 {object} gin.H "Request is addressed to a different trainer"
// @Failure 404 {object} gin.H "Request not found"
// @Router /assignments/requests/{requestId}/accept [post]
func (h *AssignmentHandler) AcceptRequest(c *gin.Context) {
	h.respond(c, h.assignmentService.AcceptRequest)
}

// RejectRequest godoc
// @Summary Reject a pending assignment request
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request's ObjectID Hex"
// @Param response body RespondToRequestRequest false "Optional response note"
// @Success 200 {object} AssignmentRequestResponse "Request rejected"
// @Failure 400 {object} gin.H "Request already responded to"
// @Failure 403 {object} gin.H "Request is addressed to a different trainer"
// @Failure 404 {object} gin.H "Request not found"
// @Router /assignments/requests/{requestId}/reject [post]
func (h *AssignmentHandler) RejectRequest(c *gin.Context) {
	h.respond(c, h.assignmentService.RejectRequest)
}

// respond is the shared body of AcceptRequest and RejectRequest; only the
// service call differs.
func (h *AssignmentHandler) respond(c *gin.Context, fn func(ctx context.Context, requestID, trainerID primitive.ObjectID, response string) (*domain.TrainerAssignmentRequest, error)) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("requestId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request ID format in URL path.")
		return
	}

	var req RespondToRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	request, err := fn(c.Request.Context(), requestID, trainerID, req.Response)
	if err != nil {
		mapAssignmentServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapRequestToResponse(request))
}

// CancelRequest godoc
// @Summary Cancel the authenticated member's pending request
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request's ObjectID Hex"
// @Success 200 {object} AssignmentRequestResponse "Request cancelled"
// @Failure 400 {object} gin.H "Only a pending request can be cancelled"
// @Failure 403 {object} gin.H "Request belongs to a different member"
// @Failure 404 {object} gin.H "Request not found"
// @Router /assignments/requests/{requestId}/cancel [post]
func (h *AssignmentHandler) CancelRequest(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("requestId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request ID format in URL path.")
		return
	}

	request, err := h.assignmentService.CancelRequest(c.Request.Context(), requestID, memberID)
	if err != nil {
		mapAssignmentServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapRequestToResponse(request))
}

// RemoveTrainer godoc
// @Summary Remove the authenticated member's current trainer
// @Description Clears the assignment; past requests are left untouched.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MemberResponse "Member with assignment cleared"
// @Failure 400 {object} gin.H "Member has no trainer to remove"
// @Failure 404 {object} gin.H "Member not found"
// @Router /assignments/trainer [delete]
func (h *AssignmentHandler) RemoveTrainer(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	member, err := h.assignmentService.RemoveTrainer(c.Request.Context(), memberID)
	if err != nil {
		mapAssignmentServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GetMyRequests godoc
// @Summary List the authenticated member's assignment requests
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AssignmentRequestResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /assignments/requests/mine [get]
func (h *AssignmentHandler) GetMyRequests(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	requests, err := h.assignmentService.GetRequestsForMember(c.Request.Context(), memberID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve requests.")
		return
	}

	if requests == nil {
		c.JSON(http.StatusOK, []AssignmentRequestResponse{})
		return
	}
	c.JSON(http.StatusOK, MapRequestsToResponse(requests))
}

// GetIncomingRequests godoc
// @Summary List requests addressed to the authenticated trainer
// @Description Pass ?pending=true to see only requests still awaiting a response.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param pending query bool false "Only pending requests"
// @Success 200 {array} AssignmentRequestResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /assignments/requests/incoming [get]
func (h *AssignmentHandler) GetIncomingRequests(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var (
		requests []domain.TrainerAssignmentRequest
		err      error
	)
	if c.Query("pending") == "true" {
		requests, err = h.assignmentService.GetPendingRequestsForTrainer(c.Request.Context(), trainerID)
	} else {
		requests, err = h.assignmentService.GetRequestsForTrainer(c.Request.Context(), trainerID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve requests.")
		return
	}

	if requests == nil {
		c.JSON(http.StatusOK, []AssignmentRequestResponse{})
		return
	}
	c.JSON(http.StatusOK, MapRequestsToResponse(requests))
}

// GetRequestByID godoc
// @Summary Get a single assignment request
// @Description Visible to the requesting member, the addressed trainer, and admins.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request's ObjectID Hex"
// @Success 200 {object} AssignmentRequestResponse
// @Failure 403 {object} gin.H "Caller is not a party to this request"
// @Failure 404 {object} gin.H "Request not found"
// @Router /assignments/requests/{requestId} [get]
func (h *AssignmentHandler) GetRequestByID(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("requestId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request ID format in URL path.")
		return
	}

	request, err := h.assignmentService.GetRequestByID(c.Request.Context(), requestID)
	if err != nil {
		mapAssignmentServiceError(c, err)
		return
	}

	role, _ := tokenRole(c)
	if role != domain.RoleAdmin {
		callerID, ok := objectIDFromToken(c)
		if !ok {
			return
		}
		if request.MemberID != callerID && request.TrainerID != callerID {
			abortWithError(c, http.StatusForbidden, service.ErrRequestAccessDenied.Error())
			return
		}
	}

	c.JSON(http.StatusOK, MapRequestToResponse(request))
}

// CountIncomingRequests godoc
// @Summary Count requests still awaiting the authenticated trainer's response
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "count"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /assignments/requests/incoming/count [get]
func (h *AssignmentHandler) CountIncomingRequests(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	count, err := h.assignmentService.CountPendingForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to count requests.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func mapAssignmentServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrTrainerNotFound),
		errors.Is(err, service.ErrRequestNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRequestAlreadyPending),
		errors.Is(err, service.ErrMemberAlreadyAssigned):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRequestAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRequestAlreadyResponded),
		errors.Is(err, service.ErrOnlyPendingCancellable),
		errors.Is(err, service.ErrNoTrainerToRemove):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
