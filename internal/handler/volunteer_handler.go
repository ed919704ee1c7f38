package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// VolunteerHandler handles volunteer directory endpoints.
type VolunteerHandler struct {
	volunteers     *service.VolunteerService
	qualifications *service.QualificationService
}

// NewVolunteerHandler creates a new volunteer handler.
func NewVolunteerHandler(volunteers *service.VolunteerService, qualifications *service.QualificationService) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers, qualifications: qualifications}
}

// List godoc
// @Summary List volunteers
// @Tags Volunteers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/volunteers [get]
func (h *VolunteerHandler) List(c *gin.Context) {
	volunteers, err := h.volunteers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, volunteers)
}

// Get godoc
// @Summary Get a volunteer
// @Tags Volunteers
// @Produce json
// @Param id path string true "Volunteer ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/volunteers/{id} [get]
func (h *VolunteerHandler) Get(c *gin.Context) {
	volunteer, err := h.volunteers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, volunteer)
}

// Register godoc
// @Summary Register volunteer
// @Description Create a volunteer or administrator account
// @Tags Volunteers
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/volunteers [post]
func (h *VolunteerHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	volunteer, err := h.volunteers.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, volunteer)
}

// Qualifications godoc
// @Summary List a volunteer's qualifications
// @Tags Volunteers
// @Produce json
// @Param id path string true "Volunteer ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/volunteers/{id}/qualifications [get]
func (h *VolunteerHandler) Qualifications(c *gin.Context) {
	qualifications, err := h.volunteers.Qualifications(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, qualifications)
}

// BindQualifications godoc
// @Summary Replace a volunteer's qualifications
// @Description Replaces the set wholesale. Administrator accounts are rejected.
// @Tags Volunteers
// @Accept json
// @Produce json
// @Param id path string true "Volunteer ID"
// @Param payload body service.BindQualificationsRequest true "Qualification IDs"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /admin/volunteers/{id}/qualifications [put]
func (h *VolunteerHandler) BindQualifications(c *gin.Context) {
	var req service.BindQualificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.qualifications.Bind(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
