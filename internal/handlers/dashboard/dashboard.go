// internal/handlers/dashboard/dashboard.go
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/pkg/response"
	service "visatrack-service/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats serves the operator dashboard counters.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load dashboard", err)
		return
	}
	response.Success(c, http.StatusOK, "dashboard retrieved", stats)
}
