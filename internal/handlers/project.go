package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	statisticsService *services.StatisticsService
}

func NewProjectHandler(projectService *services.ProjectService, statisticsService *services.StatisticsService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		statisticsService: statisticsService,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projectService.GetActiveProjects()
	respondList(c, items, err)
}

func (h *ProjectHandler) ListAll(c *gin.Context) {
	items, err := h.projectService.GetAllProjects()
	respondList(c, items, err)
}

func (h *ProjectHandler) ListInactive(c *gin.Context) {
	items, err := h.projectService.GetInactiveProjects()
	respondList(c, items, err)
}

func (h *ProjectHandler) ListInProgress(c *gin.Context) {
	items, err := h.projectService.GetInProgressProjects()
	respondList(c, items, err)
}

func (h *ProjectHandler) ListCritical(c *gin.Context) {
	items, err := h.projectService.GetCriticalProjects()
	respondList(c, items, err)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	item, err := h.projectService.GetProjectByID(c.Param("id"))
	respondItem(c, item, err)
}

func (h *ProjectHandler) ByStatus(c *gin.Context) {
	status := models.ProjectStatus(strings.ToUpper(c.Param("status")))
	items, err := h.projectService.GetProjectsByStatus(status)
	respondList(c, items, err)
}

func (h *ProjectHandler) ByClient(c *gin.Context) {
	items, err := h.projectService.GetProjectsByClient(c.Param("client"))
	respondList(c, items, err)
}

func (h *ProjectHandler) BySkill(c *gin.Context) {
	items, err := h.projectService.GetProjectsBySkill(c.Param("skillName"))
	respondList(c, items, err)
}

// BySkills lists projects requiring every skill in ?skills=a,b
func (h *ProjectHandler) BySkills(c *gin.Context) {
	items, err := h.projectService.GetProjectsBySkills(splitList(c.Query("skills")))
	respondList(c, items, err)
}

func (h *ProjectHandler) ByCollaborator(c *gin.Context) {
	items, err := h.projectService.GetProjectsByCollaborator(c.Param("id"))
	respondList(c, items, err)
}

// Search filters, sorts and pages projects from query parameters
func (h *ProjectHandler) Search(c *gin.Context) {
	criteria := models.ProjectSearchCriteria{
		Name:           c.Query("name"),
		RequiredSkills: splitList(c.Query("skills")),
		SortBy:         c.Query("sortBy"),
		SortDirection:  c.Query("sortDirection"),
	}
	for _, status := range splitList(c.Query("status")) {
		criteria.Statuses = append(criteria.Statuses, models.ProjectStatus(strings.ToUpper(status)))
	}

	var ok bool
	if criteria.StartAfter, ok = optionalDateQuery(c, "startAfter"); !ok {
		return
	}
	if criteria.StartBefore, ok = optionalDateQuery(c, "startBefore"); !ok {
		return
	}
	if criteria.EndAfter, ok = optionalDateQuery(c, "endAfter"); !ok {
		return
	}
	if criteria.EndBefore, ok = optionalDateQuery(c, "endBefore"); !ok {
		return
	}

	if value := c.Query("critical"); value != "" {
		critical, err := strconv.ParseBool(value)
		if err != nil {
			respondError(c, models.NewValidationError("critical", "critical must be true or false"))
			return
		}
		criteria.Critical = critical
	}
	for name, target := range map[string]*int{"page": &criteria.Page, "size": &criteria.Size} {
		value := c.Query(name)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			respondError(c, models.NewValidationError(name, name+" must be a number"))
			return
		}
		*target = n
	}

	page, err := h.projectService.SearchProjects(criteria)
	respondItem(c, page, err)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.projectService.CreateProject(&req)
	respondItem(c, item, err)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.projectService.UpdateProject(c.Param("id"), &req)
	respondItem(c, item, err)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) Deactivate(c *gin.Context) {
	if err := h.projectService.DeactivateProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Project deactivated")
}

func (h *ProjectHandler) Reactivate(c *gin.Context) {
	if err := h.projectService.ReactivateProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Project reactivated")
}

func (h *ProjectHandler) DeactivateMany(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.projectService.DeactivateProjects(req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Projects deactivated")
}

func (h *ProjectHandler) ReactivateMany(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.projectService.ReactivateProjects(req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Projects reactivated")
}

func (h *ProjectHandler) Statistics(c *gin.Context) {
	stats, err := h.statisticsService.ProjectStatistics()
	respondItem(c, stats, err)
}

func (h *ProjectHandler) StatusStatistics(c *gin.Context) {
	stats, err := h.statisticsService.ProjectStatusStatistics()
	respondItem(c, stats, err)
}
