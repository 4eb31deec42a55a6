package api

import (
	"errors"
	"net/http"
	"time"

	"ironloop/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- DTOs ---

type UpdateMemberProfileRequest struct {
	Name            string     `json:"name" binding:"required"`
	Phone           string     `json:"phone" binding:"required"`
	MembershipStart *time.Time `json:"membershipStart"`
	MembershipEnd   *time.Time `json:"membershipEnd"`
}

// --- Handler Methods ---

// GetMyProfile godoc
// @Summary Get the authenticated member's profile
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MemberResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Member not found"
// @Router /members/me [get]
func (h *MemberHandler) GetMyProfile(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		mapMemberServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// UpdateMyProfile godoc
// @Summary Update the authenticated member's profile
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateMemberProfileRequest true "Updated profile fields"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Member not found"
// @Failure 409 {object} gin.H "Phone already in use"
// @Router /members/me [put]
func (h *MemberHandler) UpdateMyProfile(c *gin.Context) {
	memberID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req UpdateMemberProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	member, err := h.memberService.UpdateProfile(c.Request.Context(), memberID, service.MemberProfileUpdate{
		Name:            req.Name,
		Phone:           req.Phone,
		MembershipStart: req.MembershipStart,
		MembershipEnd:   req.MembershipEnd,
	})
	if err != nil {
		if errors.Is(err, service.ErrPhoneAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		mapMemberServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GetMemberByID godoc
// @Summary Get a member by id
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member's ObjectID Hex"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} gin.H "Invalid member ID format"
// @Failure 404 {object} gin.H "Member not found"
// @Router /members/{memberId} [get]
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format in URL path.")
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		mapMemberServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// ListMembers godoc
// @Summary List all members
// @Description Admin view of every non-deleted member.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MemberResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list members.")
		return
	}

	if members == nil {
		c.JSON(http.StatusOK, []MemberResponse{})
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// DeleteMember godoc
// @Summary Soft-delete a member
// @Description Marks the member deleted; the record can be restored later.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member's ObjectID Hex"
// @Success 200 {object} gin.H "message: Member deleted successfully"
// @Failure 400 {object} gin.H "Invalid member ID format"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Member not found"
// @Router /members/{memberId} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format in URL path.")
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), memberID); err != nil {
		mapMemberServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// RestoreMember godoc
// @Summary Restore a soft-deleted member
// @Description Revives a previously deleted member with all fields intact.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member's ObjectID Hex"
// @Success 200 {object} MemberResponse "Restored member"
// @Failure 400 {object} gin.H "Invalid member ID format"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "No deleted member with this id"
// @Router /members/{memberId}/restore [post]
func (h *MemberHandler) RestoreMember(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format in URL path.")
		return
	}

	member, err := h.memberService.RestoreMember(c.Request.Context(), memberID)
	if err != nil {
		mapMemberServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

func mapMemberServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMemberNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
}

// objectIDFromToken reads the authenticated user's id out of the gin
// context and parses it. On failure it aborts the request itself.
func objectIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, ok := tokenUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
