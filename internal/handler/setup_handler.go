package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// SetupHandler exposes the guarded one-time bootstrap endpoint.
type SetupHandler struct {
	service *service.SetupService
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(svc *service.SetupService) *SetupHandler {
	return &SetupHandler{service: svc}
}

type setupRequest struct {
	Secret string `json:"secret"`
}

// Run godoc
// @Summary One-time setup
// @Description Seed the canonical qualification list and create the initial administrator. Remove after first use.
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body setupRequest true "Shared secret"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /setup [post]
func (h *SetupHandler) Run(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Run(c.Request.Context(), req.Secret); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"setup": "complete"})
}
