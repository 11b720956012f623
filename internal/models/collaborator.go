package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CollaboratorStatus string

const (
	CollaboratorAvailable CollaboratorStatus = "AVAILABLE"
	CollaboratorOnMission CollaboratorStatus = "ON_MISSION"
	CollaboratorOnLeave   CollaboratorStatus = "ON_LEAVE"
)

func (s CollaboratorStatus) Valid() bool {
	switch s {
	case CollaboratorAvailable, CollaboratorOnMission, CollaboratorOnLeave:
		return true
	}
	return false
}

type Collaborator struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Role            string             `json:"role"`
	Grade           string             `json:"grade"`
	ExperienceYears int                `json:"experience_years"`
	Status          CollaboratorStatus `json:"status"`
	Active          bool               `json:"active"`
	Skills          []*Skill           `json:"skills"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (c *Collaborator) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCollaboratorNameRequired
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrCollaboratorEmailRequired
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return ErrCollaboratorEmailInvalid
	}
	if c.ExperienceYears < 0 {
		return ErrCollaboratorExperienceInvalid
	}
	if !c.Status.Valid() {
		return ErrCollaboratorStatusInvalid
	}
	return nil
}

// HasSkill reports whether the collaborator holds the named skill, ignoring case
func (c *Collaborator) HasSkill(name string) bool {
	for _, skill := range c.Skills {
		if strings.EqualFold(skill.Name, name) {
			return true
		}
	}
	return false
}

var (
	ErrCollaboratorNameRequired      = &ValidationError{Field: "name", Message: "Collaborator name is required"}
	ErrCollaboratorEmailRequired     = &ValidationError{Field: "email", Message: "Collaborator email is required"}
	ErrCollaboratorEmailInvalid      = &ValidationError{Field: "email", Message: "Collaborator email is invalid"}
	ErrCollaboratorExperienceInvalid = &ValidationError{Field: "experience_years", Message: "Experience years cannot be negative"}
	ErrCollaboratorStatusInvalid     = &ValidationError{Field: "status", Message: "Collaborator status is invalid"}
)

// CollaboratorRequest is the create/update payload. ReleaseAssignments lets an
// update change the status of a collaborator that is still assigned by
// removing those assignments in the same transaction.
type CollaboratorRequest struct {
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Role               string             `json:"role"`
	Grade              string             `json:"grade"`
	ExperienceYears    int                `json:"experience_years"`
	Status             CollaboratorStatus `json:"status"`
	Skills             []string           `json:"skills"`
	ReleaseAssignments bool               `json:"release_assignments"`
}

// BulkIDsRequest carries ids for bulk state transitions
type BulkIDsRequest struct {
	IDs []string `json:"ids"`
}
