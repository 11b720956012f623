package handlers

import (
	"net/http"

	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService *services.ProjectAlertService
}

func NewAlertHandler(alertService *services.ProjectAlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) List(c *gin.Context) {
	items, err := h.alertService.GetActiveAlerts()
	respondList(c, items, err)
}

func (h *AlertHandler) HighPriority(c *gin.Context) {
	items, err := h.alertService.GetHighPriorityAlerts()
	respondList(c, items, err)
}

func (h *AlertHandler) ByProject(c *gin.Context) {
	items, err := h.alertService.GetProjectAlerts(c.Param("projectId"))
	respondList(c, items, err)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	if err := h.alertService.ResolveAlert(c.Param("alertId")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Alert resolved")
}

// Check runs an alert scan immediately
func (h *AlertHandler) Check(c *gin.Context) {
	created, err := h.alertService.CheckForNewAlerts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}
