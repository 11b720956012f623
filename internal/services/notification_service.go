package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/sanitize"
)

// readRetentionDays is how long read notifications are kept
const readRetentionDays = 30

type NotificationService struct {
	clock
	notificationRepo *repositories.NotificationRepository
}

func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		clock:            clock{Now: time.Now},
		notificationRepo: notificationRepo,
	}
}

// Notify stores a notification for recipient
func (s *NotificationService) Notify(recipient string, notificationType models.NotificationType, title, message, link string, priority models.NotificationPriority) (*models.Notification, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, models.NewValidationError("recipient", "Recipient is required")
	}
	if !notificationType.Valid() {
		return nil, models.NewValidationError("type", "Notification type is invalid")
	}
	if priority == "" {
		priority = models.NotificationMedium
	}
	if !priority.Valid() {
		return nil, models.NewValidationError("priority", "Notification priority is invalid")
	}

	n := models.NewNotification(recipient, notificationType, sanitize.Text(title), sanitize.Text(message), link, priority, s.now())
	if err := s.notificationRepo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// NotifyAssignmentCreated tells the caller who created an assignment about it
func (s *NotificationService) NotifyAssignmentCreated(recipient string, a *models.Assignment) (*models.Notification, error) {
	return s.Notify(recipient, models.NotificationAssignment,
		"New assignment",
		fmt.Sprintf("%s was assigned to %s", a.CollaboratorName, a.ProjectName),
		"/api/assignments/"+a.ID.String(),
		models.NotificationMedium,
	)
}

// GetNotifications retrieves every notification of recipient
func (s *NotificationService) GetNotifications(recipient string) ([]*models.Notification, error) {
	return s.notificationRepo.GetByRecipient(recipient)
}

// GetUnreadNotifications retrieves unread notifications of recipient
func (s *NotificationService) GetUnreadNotifications(recipient string) ([]*models.Notification, error) {
	return s.notificationRepo.GetUnread(recipient)
}

// CountUnread counts unread notifications of recipient
func (s *NotificationService) CountUnread(recipient string) (int, error) {
	return s.notificationRepo.CountUnread(recipient)
}

// GetByType retrieves notifications of recipient with the given type
func (s *NotificationService) GetByType(recipient string, notificationType models.NotificationType) ([]*models.Notification, error) {
	if !notificationType.Valid() {
		return nil, models.NewValidationError("type", "Notification type is invalid")
	}
	return s.notificationRepo.GetByType(recipient, notificationType)
}

// GetByPriority retrieves notifications of recipient with the given priority
func (s *NotificationService) GetByPriority(recipient string, priority models.NotificationPriority) ([]*models.Notification, error) {
	if !priority.Valid() {
		return nil, models.NewValidationError("priority", "Notification priority is invalid")
	}
	return s.notificationRepo.GetByPriority(recipient, priority)
}

// GetRecent retrieves notifications of recipient created since the given time
func (s *NotificationService) GetRecent(recipient string, since time.Time) ([]*models.Notification, error) {
	return s.notificationRepo.GetSince(recipient, since)
}

// MarkAsRead marks one notification of recipient read
func (s *NotificationService) MarkAsRead(id, recipient string) error {
	if err := validateID("Notification", id); err != nil {
		return err
	}
	return s.notificationRepo.MarkRead(id, recipient)
}

// MarkAllAsRead marks every notification of recipient read
func (s *NotificationService) MarkAllAsRead(recipient string) (int, error) {
	return s.notificationRepo.MarkAllRead(recipient)
}

// DeleteNotification deletes one notification of recipient
func (s *NotificationService) DeleteNotification(id, recipient string) error {
	if err := validateID("Notification", id); err != nil {
		return err
	}
	return s.notificationRepo.Delete(id, recipient)
}

// CleanupReadNotifications removes read notifications past the retention period
func (s *NotificationService) CleanupReadNotifications() (int, error) {
	cutoff := s.now().AddDate(0, 0, -readRetentionDays)
	removed, err := s.notificationRepo.DeleteReadBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", err)
	}
	return removed, nil
}
