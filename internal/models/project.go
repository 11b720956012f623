package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStarting   ProjectStatus = "STARTING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectPaused     ProjectStatus = "PAUSED"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStarting, ProjectInProgress, ProjectPaused, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// IsTerminal reports COMPLETED and CANCELLED
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// Assignable reports whether collaborators may be added in this status
func (s ProjectStatus) Assignable() bool {
	return s == ProjectStarting || s == ProjectInProgress || s == ProjectPaused
}

type ProjectPriority string

const (
	PriorityCritical ProjectPriority = "CRITICAL"
	PriorityHigh     ProjectPriority = "HIGH"
	PriorityMedium   ProjectPriority = "MEDIUM"
	PriorityLow      ProjectPriority = "LOW"
)

func (p ProjectPriority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Project struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Client         string          `json:"client"`
	ProjectManager string          `json:"project_manager"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	TeamSize       int             `json:"team_size"`
	Status         ProjectStatus   `json:"status"`
	Priority       ProjectPriority `json:"priority"`
	Active         bool            `json:"active"`
	Progress       float64         `json:"progress"`
	RequiredSkills []*Skill        `json:"required_skills"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProjectNameRequired
	}
	if strings.TrimSpace(p.Client) == "" {
		return ErrProjectClientRequired
	}
	if strings.TrimSpace(p.ProjectManager) == "" {
		return ErrProjectManagerRequired
	}
	if p.StartDate.IsZero() {
		return ErrProjectStartDateRequired
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ErrProjectDatesInvalid
	}
	if p.TeamSize < 1 {
		return ErrProjectTeamSizeInvalid
	}
	if p.Progress < 0 || p.Progress > 100 {
		return ErrProjectProgressInvalid
	}
	if !p.Status.Valid() {
		return ErrProjectStatusInvalid
	}
	if !p.Priority.Valid() {
		return ErrProjectPriorityInvalid
	}
	return nil
}

// IsPastDue reports whether the end date is strictly before the day of now
func (p *Project) IsPastDue(now time.Time) bool {
	return p.EndDate != nil && p.EndDate.Before(StartOfDay(now))
}

// Covers reports whether day falls inside the project's date range; an open
// end date never ends
func (p *Project) Covers(day time.Time) bool {
	day = StartOfDay(day)
	if day.Before(StartOfDay(p.StartDate)) {
		return false
	}
	return p.EndDate == nil || !day.After(StartOfDay(*p.EndDate))
}

// Overlaps reports whether the project's date range intersects [from, to]
func (p *Project) Overlaps(from, to time.Time) bool {
	if StartOfDay(to).Before(StartOfDay(p.StartDate)) {
		return false
	}
	return p.EndDate == nil || !StartOfDay(from).After(StartOfDay(*p.EndDate))
}

// Common errors
var (
	ErrProjectNameRequired      = &ValidationError{Field: "name", Message: "Project name is required"}
	ErrProjectClientRequired    = &ValidationError{Field: "client", Message: "Project client is required"}
	ErrProjectManagerRequired   = &ValidationError{Field: "project_manager", Message: "Project manager is required"}
	ErrProjectStartDateRequired = &ValidationError{Field: "start_date", Message: "Project start date is required"}
	ErrProjectDatesInvalid      = &ValidationError{Field: "end_date", Message: "Project end date must not be before its start date"}
	ErrProjectTeamSizeInvalid   = &ValidationError{Field: "team_size", Message: "Team size must be at least 1"}
	ErrProjectProgressInvalid   = &ValidationError{Field: "progress", Message: "Progress must be between 0 and 100"}
	ErrProjectStatusInvalid     = &ValidationError{Field: "status", Message: "Project status is invalid"}
	ErrProjectPriorityInvalid   = &ValidationError{Field: "priority", Message: "Project priority is invalid"}
)

type ProjectRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Client         string          `json:"client"`
	ProjectManager string          `json:"project_manager"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	TeamSize       int             `json:"team_size"`
	Status         ProjectStatus   `json:"status"`
	Priority       ProjectPriority `json:"priority"`
	Progress       float64         `json:"progress"`
	RequiredSkills []string        `json:"required_skills"`
}

// ProjectSearchCriteria filters, sorts and pages a project search
type ProjectSearchCriteria struct {
	Name           string
	Statuses       []ProjectStatus
	StartAfter     *time.Time
	StartBefore    *time.Time
	EndAfter       *time.Time
	EndBefore      *time.Time
	RequiredSkills []string
	Critical       bool
	Page           int
	Size           int
	SortBy         string
	SortDirection  string
}

// Page is one slice of a sorted result set
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}
