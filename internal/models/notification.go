package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationProject      NotificationType = "PROJECT"
	NotificationCollaborator NotificationType = "COLLABORATOR"
	NotificationAssignment   NotificationType = "ASSIGNMENT"
	NotificationSystem       NotificationType = "SYSTEM"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationProject, NotificationCollaborator, NotificationAssignment, NotificationSystem:
		return true
	}
	return false
}

type NotificationPriority string

const (
	NotificationHigh   NotificationPriority = "HIGH"
	NotificationMedium NotificationPriority = "MEDIUM"
	NotificationLow    NotificationPriority = "LOW"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case NotificationHigh, NotificationMedium, NotificationLow:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID            `json:"id"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Read      bool                 `json:"read"`
	Recipient string               `json:"recipient"`
	Link      string               `json:"link"`
	Priority  NotificationPriority `json:"priority"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewNotification(recipient string, notificationType NotificationType, title, message, link string, priority NotificationPriority, now time.Time) *Notification {
	return &Notification{
		ID:        uuid.New(),
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Recipient: recipient,
		Link:      link,
		Priority:  priority,
		CreatedAt: now.UTC(),
	}
}
