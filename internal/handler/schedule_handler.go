package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// ScheduleHandler serves the volunteer-facing schedule API and self-release.
type ScheduleHandler struct {
	catalog       *service.CatalogService
	substitutions *service.SubstitutionService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(catalog *service.CatalogService, substitutions *service.SubstitutionService) *ScheduleHandler {
	return &ScheduleHandler{catalog: catalog, substitutions: substitutions}
}

// List godoc
// @Summary List services for volunteers
// @Description Non-archived services, soonest first, with per-slot occupancy
// @Tags Schedule
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Envelope
// @Router /api/services [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	services, err := h.catalog.ListActiveForAPI(c.Request.Context(), claims.VolunteerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Legacy contract consumed by the schedule frontend: a flat status field
	// rather than the standard envelope.
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"services": services,
	})
}

// Release godoc
// @Summary Release own slot
// @Description Vacate a slot occupied by the requesting volunteer and notify other volunteers
// @Tags Schedule
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/slots/{id}/release [post]
func (h *ScheduleHandler) Release(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	outcome, err := h.substitutions.Release(c.Request.Context(), c.Param("id"), claims.VolunteerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, outcome)
}
