package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/service"
)

// OpportunisticSweep runs an archival sweep ahead of read requests, at most
// once per interval. A failing sweep is logged and never aborts the request
// it piggybacks on.
func OpportunisticSweep(archival *service.ArchivalService, metrics *service.MetricsService, interval time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	var mu sync.Mutex
	var lastRun time.Time

	return func(c *gin.Context) {
		mu.Lock()
		due := time.Since(lastRun) >= interval
		if due {
			lastRun = time.Now()
		}
		mu.Unlock()

		if due {
			count, err := archival.SweepNow(c.Request.Context())
			if metrics != nil {
				metrics.ObserveSweep(count, err)
			}
			if err != nil {
				logger.Warn("opportunistic archival sweep failed", zap.Error(err))
			}
		}

		c.Next()
	}
}
