package handlers

import (
	"net/http"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentService   *services.AssignmentService
	notificationService *services.NotificationService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService, notificationService *services.NotificationService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService:   assignmentService,
		notificationService: notificationService,
	}
}

func (h *AssignmentHandler) List(c *gin.Context) {
	items, err := h.assignmentService.GetAllAssignments()
	respondList(c, items, err)
}

func (h *AssignmentHandler) ListActive(c *gin.Context) {
	items, err := h.assignmentService.GetActiveAssignments()
	respondList(c, items, err)
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	item, err := h.assignmentService.GetAssignmentByID(c.Param("id"))
	respondItem(c, item, err)
}

func (h *AssignmentHandler) ByCollaborator(c *gin.Context) {
	items, err := h.assignmentService.GetAssignmentsByCollaborator(c.Param("id"))
	respondList(c, items, err)
}

func (h *AssignmentHandler) ByProject(c *gin.Context) {
	items, err := h.assignmentService.GetAssignmentsByProject(c.Param("id"))
	respondList(c, items, err)
}

// Create assigns a collaborator and notifies the caller
func (h *AssignmentHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req models.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.notificationService.NotifyAssignmentCreated(principal.Email, assignment); err != nil {
		logger.Component("assignments").WithError(err).WithField("assignment_id", assignment.ID.String()).Warn("Failed to send assignment notification")
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.AssignmentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignmentService.UpdateAssignment(c.Param("id"), &req)
	respondItem(c, item, err)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignmentService.DeleteAssignment(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondRemoved(c *gin.Context, removed int, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}

func (h *AssignmentHandler) RemoveFromProject(c *gin.Context) {
	var req models.RemoveCollaboratorsRequest
	if !bindJSON(c, &req) {
		return
	}
	removed, err := h.assignmentService.RemoveCollaboratorsFromProject(c.Param("id"), req.CollaboratorIDs)
	respondRemoved(c, removed, err)
}

func (h *AssignmentHandler) RemoveAllFromProject(c *gin.Context) {
	removed, err := h.assignmentService.RemoveAllCollaboratorsFromProject(c.Param("id"))
	respondRemoved(c, removed, err)
}

func (h *AssignmentHandler) RemoveCollaboratorEverywhere(c *gin.Context) {
	removed, err := h.assignmentService.RemoveCollaboratorFromAllProjects(c.Param("id"))
	respondRemoved(c, removed, err)
}

func (h *AssignmentHandler) RemoveEnding(c *gin.Context) {
	removed, err := h.assignmentService.RemoveCollaboratorsFromEndingProjects()
	respondRemoved(c, removed, err)
}

func (h *AssignmentHandler) RemovalStatistics(c *gin.Context) {
	stats, err := h.assignmentService.GetRemovalStatistics()
	respondItem(c, stats, err)
}

func (h *AssignmentHandler) CanRemove(c *gin.Context) {
	ok, err := h.assignmentService.CanRemoveCollaborator(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_remove": ok})
}
