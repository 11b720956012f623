package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertDeadlineApproaching AlertType = "DEADLINE_APPROACHING"
	AlertDeadlineMissed      AlertType = "DEADLINE_MISSED"
	AlertResourceShortage    AlertType = "RESOURCE_SHORTAGE"
	AlertBudgetOverflow      AlertType = "BUDGET_OVERFLOW"
	AlertSkillGap            AlertType = "SKILL_GAP"
	AlertHighTurnover        AlertType = "HIGH_TURNOVER"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

type ProjectAlert struct {
	ID          uuid.UUID     `json:"id"`
	ProjectID   uuid.UUID     `json:"project_id"`
	ProjectName string        `json:"project_name,omitempty"`
	Type        AlertType     `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	CreatedAt   time.Time     `json:"created_at"`
	Resolved    bool          `json:"resolved"`
}

func NewProjectAlert(projectID uuid.UUID, alertType AlertType, severity AlertSeverity, message string, now time.Time) *ProjectAlert {
	return &ProjectAlert{
		ID:        uuid.New(),
		ProjectID: projectID,
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		CreatedAt: now.UTC(),
	}
}
