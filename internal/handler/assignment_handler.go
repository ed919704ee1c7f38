package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// AssignmentHandler handles administrator slot mutations.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

type assignRequest struct {
	VolunteerID string `json:"volunteer_id"`
}

// Assign godoc
// @Summary Assign slot
// @Description Bind a volunteer to a slot. No qualification check is enforced.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body assignRequest true "Volunteer selection"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/slots/{id}/assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	slot, err := h.assignments.Assign(c.Request.Context(), c.Param("id"), req.VolunteerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slot)
}

// Unassign godoc
// @Summary Unassign slot
// @Description Clear a slot's occupant. Clearing a vacant slot succeeds.
// @Tags Assignments
// @Produce json
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/slots/{id}/unassign [post]
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	if err := h.assignments.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
