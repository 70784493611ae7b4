package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/middleware"
	"github.com/campushq/attendance-insights-api/internal/models"
	appErrors "github.com/campushq/attendance-insights-api/pkg/errors"
	"github.com/campushq/attendance-insights-api/pkg/response"
)

type analyticsProvider interface {
	Overview(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsOverviewResponse, bool, error)
	SystemMetrics() models.EngineMetrics
}

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics analyticsProvider
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview returns the full analytics payload for the requested scope.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var query dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analytics parameters"))
		return
	}

	start := time.Now()
	payload, cacheHit, err := h.analytics.Overview(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, payload, meta)
}

// System returns instrumentation metrics snapshots.
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	middleware.SetCacheHit(c, false)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, metrics, meta)
}
