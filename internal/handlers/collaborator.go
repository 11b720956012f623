package handlers

import (
	"net/http"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
	statisticsService   *services.StatisticsService
}

func NewCollaboratorHandler(collaboratorService *services.CollaboratorService, statisticsService *services.StatisticsService) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: collaboratorService,
		statisticsService:   statisticsService,
	}
}

// respondList writes a list result or the error that prevented it
func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func respondItem(c *gin.Context, item interface{}, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CollaboratorHandler) List(c *gin.Context) {
	items, err := h.collaboratorService.GetActiveCollaborators()
	respondList(c, items, err)
}

func (h *CollaboratorHandler) ListAll(c *gin.Context) {
	items, err := h.collaboratorService.GetAllCollaborators()
	respondList(c, items, err)
}

func (h *CollaboratorHandler) ListInactive(c *gin.Context) {
	items, err := h.collaboratorService.GetInactiveCollaborators()
	respondList(c, items, err)
}

func (h *CollaboratorHandler) ListOnLeave(c *gin.Context) {
	items, err := h.collaboratorService.GetOnLeaveCollaborators()
	respondList(c, items, err)
}

func (h *CollaboratorHandler) Get(c *gin.Context) {
	item, err := h.collaboratorService.GetCollaboratorByID(c.Param("id"))
	respondItem(c, item, err)
}

func (h *CollaboratorHandler) Search(c *gin.Context) {
	items, err := h.collaboratorService.SearchCollaborators(c.Query("query"))
	respondList(c, items, err)
}

// Available lists collaborators free on ?date=, today when omitted
func (h *CollaboratorHandler) Available(c *gin.Context) {
	date, ok := optionalDateQuery(c, "date")
	if !ok {
		return
	}
	day := models.StartOfDay(timeNow())
	if date != nil {
		day = *date
	}
	items, err := h.collaboratorService.GetAvailableCollaborators(day)
	respondList(c, items, err)
}

// AvailableForPeriod lists collaborators free between ?startDate= and ?endDate=
func (h *CollaboratorHandler) AvailableForPeriod(c *gin.Context) {
	start, ok := dateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "endDate")
	if !ok {
		return
	}
	items, err := h.collaboratorService.GetAvailableCollaboratorsForPeriod(start, end)
	respondList(c, items, err)
}

func (h *CollaboratorHandler) BySkill(c *gin.Context) {
	items, err := h.collaboratorService.GetCollaboratorsBySkill(c.Query("skillName"))
	respondList(c, items, err)
}

func (h *CollaboratorHandler) ByProject(c *gin.Context) {
	items, err := h.collaboratorService.GetCollaboratorsByProject(c.Param("id"))
	respondList(c, items, err)
}

func (h *CollaboratorHandler) Create(c *gin.Context) {
	var req models.CollaboratorRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.collaboratorService.CreateCollaborator(&req)
	respondItem(c, item, err)
}

func (h *CollaboratorHandler) Update(c *gin.Context) {
	var req models.CollaboratorRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.collaboratorService.UpdateCollaborator(c.Param("id"), &req)
	respondItem(c, item, err)
}

func (h *CollaboratorHandler) Delete(c *gin.Context) {
	if err := h.collaboratorService.DeleteCollaborator(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollaboratorHandler) Deactivate(c *gin.Context) {
	if err := h.collaboratorService.DeactivateCollaborator(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Collaborator deactivated")
}

func (h *CollaboratorHandler) Reactivate(c *gin.Context) {
	if err := h.collaboratorService.ReactivateCollaborator(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Collaborator reactivated")
}

func (h *CollaboratorHandler) DeactivateMany(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.collaboratorService.DeactivateCollaborators(req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Collaborators deactivated")
}

func (h *CollaboratorHandler) ReactivateMany(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.collaboratorService.ReactivateCollaborators(req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Collaborators reactivated")
}

func (h *CollaboratorHandler) Statistics(c *gin.Context) {
	stats, err := h.statisticsService.CollaboratorStatistics()
	respondItem(c, stats, err)
}

func (h *CollaboratorHandler) StatusStatistics(c *gin.Context) {
	stats, err := h.statisticsService.CollaboratorStatusStatistics()
	respondItem(c, stats, err)
}
