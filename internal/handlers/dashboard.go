package handlers

import (
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	statisticsService *services.StatisticsService
}

func NewDashboardHandler(statisticsService *services.StatisticsService) *DashboardHandler {
	return &DashboardHandler{statisticsService: statisticsService}
}

// Dashboard returns the home page rollup
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.statisticsService.Dashboard()
	respondItem(c, dashboard, err)
}
