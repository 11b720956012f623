package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's own notifications; the recipient
// is always the authenticated email
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	items, err := h.notificationService.GetNotifications(principal.Email)
	respondList(c, items, err)
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	items, err := h.notificationService.GetUnreadNotifications(principal.Email)
	respondList(c, items, err)
}

func (h *NotificationHandler) Count(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	count, err := h.notificationService.CountUnread(principal.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) ByType(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	notificationType := models.NotificationType(strings.ToUpper(c.Param("type")))
	items, err := h.notificationService.GetByType(principal.Email, notificationType)
	respondList(c, items, err)
}

func (h *NotificationHandler) ByPriority(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	priority := models.NotificationPriority(strings.ToUpper(c.Param("priority")))
	items, err := h.notificationService.GetByPriority(principal.Email, priority)
	respondList(c, items, err)
}

// Recent lists notifications since ?since= (RFC3339 or date), default the last 24 hours
func (h *NotificationHandler) Recent(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	since := timeNow().Add(-24 * time.Hour)
	if value := c.Query("since"); value != "" {
		parsed, err := models.ParseDate(value)
		if err != nil {
			respondError(c, models.NewValidationError("since", "since must be a date or RFC3339 timestamp"))
			return
		}
		since = parsed
	}
	items, err := h.notificationService.GetRecent(principal.Email, since)
	respondList(c, items, err)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Param("id"), principal.Email); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	updated, err := h.notificationService.MarkAllAsRead(principal.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.notificationService.DeleteNotification(c.Param("id"), principal.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
