package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/service"
)

// MetricsHandler serves the dev API liveness and Prometheus endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	started time.Time
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, started: time.Now()}
}

type healthResponse struct {
	Status  string                   `json:"status"`
	Uptime  string                   `json:"uptime"`
	Metrics *service.MetricsSnapshot `json:"metrics,omitempty"`
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness with the request counters.
func (h *MetricsHandler) Health(c *gin.Context) {
	resp := healthResponse{Status: "ok", Uptime: time.Since(h.started).Round(time.Second).String()}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Metrics = &snap
	}
	c.JSON(http.StatusOK, resp)
}
