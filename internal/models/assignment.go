package models

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID               uuid.UUID `json:"id"`
	CollaboratorID   uuid.UUID `json:"collaborator_id"`
	ProjectID        uuid.UUID `json:"project_id"`
	Role             string    `json:"role"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	CollaboratorName string    `json:"collaborator_name,omitempty"`
	ProjectName      string    `json:"project_name,omitempty"`
}

func NewAssignment(collaboratorID, projectID uuid.UUID, role, notes string, now time.Time) *Assignment {
	return &Assignment{
		ID:             uuid.New(),
		CollaboratorID: collaboratorID,
		ProjectID:      projectID,
		Role:           role,
		Notes:          notes,
		CreatedAt:      now.UTC(),
	}
}

type AssignmentRequest struct {
	CollaboratorID string `json:"collaborator_id"`
	ProjectID      string `json:"project_id"`
	Role           string `json:"role"`
	Notes          string `json:"notes"`
}

// AssignmentUpdateRequest only carries the mutable fields
type AssignmentUpdateRequest struct {
	Role  string `json:"role"`
	Notes string `json:"notes"`
}

type RemoveCollaboratorsRequest struct {
	CollaboratorIDs []string `json:"collaborator_ids"`
}

// RemovalStatistics summarizes what the ending-projects sweep would release
type RemovalStatistics struct {
	ActiveAssignments         int `json:"active_assignments"`
	EndingSoon                int `json:"ending_soon"`
	CollaboratorsToBeReleased int `json:"collaborators_to_be_released"`
}
