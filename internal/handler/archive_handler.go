package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escala-acolitos/escala-api/internal/service"
	"github.com/escala-acolitos/escala-api/pkg/response"
)

// ArchiveHandler exposes the on-demand archival sweep.
type ArchiveHandler struct {
	archival *service.ArchivalService
	metrics  *service.MetricsService
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(archival *service.ArchivalService, metrics *service.MetricsService) *ArchiveHandler {
	return &ArchiveHandler{archival: archival, metrics: metrics}
}

// Sweep godoc
// @Summary Trigger archival sweep
// @Description Archive services older than the retention window and report the count
// @Tags Archive
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/archive/sweep [post]
func (h *ArchiveHandler) Sweep(c *gin.Context) {
	count, err := h.archival.SweepNow(c.Request.Context())
	if h.metrics != nil {
		h.metrics.ObserveSweep(count, err)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"archived":       count,
		"retention_days": h.archival.RetentionDays(),
	})
}
