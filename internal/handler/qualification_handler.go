package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// QualificationHandler handles the qualification registry endpoints.
type QualificationHandler struct {
	service *service.QualificationService
}

// NewQualificationHandler creates a new qualification handler.
func NewQualificationHandler(svc *service.QualificationService) *QualificationHandler {
	return &QualificationHandler{service: svc}
}

// List godoc
// @Summary List qualifications
// @Tags Qualifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/qualifications [get]
func (h *QualificationHandler) List(c *gin.Context) {
	qualifications, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, qualifications)
}
