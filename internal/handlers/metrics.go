package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktrack/todo-list-api/internal/errors"
	"github.com/tasktrack/todo-list-api/internal/middleware"
	"github.com/tasktrack/todo-list-api/internal/services"
)

// MetricsHandler serves the dashboard metrics endpoint.
type MetricsHandler struct {
	metricsService *services.MetricsService
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
	}
}

// GetMetrics returns the full dashboard for the caller's scoped task set.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	dashboard, err := h.metricsService.Dashboard(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute metrics")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
