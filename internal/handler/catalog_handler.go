package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// CatalogHandler handles administrator service management endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List active services
// @Description Administrator view: newest date first, slots with candidate suggestions
// @Tags Services
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	services, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services)
}

// Create godoc
// @Summary Create service
// @Description Create a service with one slot per non-blank role name
// @Tags Services
// @Accept json
// @Produce json
// @Param payload body service.CreateServiceRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/services [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req service.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	created, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// Edit godoc
// @Summary Edit service
// @Description Update date and time of a service
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body service.EditServiceRequest true "Edit payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/services/{id} [put]
func (h *CatalogHandler) Edit(c *gin.Context) {
	var req service.EditServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	updated, err := h.catalog.Edit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete service
// @Description Delete a service and its slots
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/services/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
