package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/alimgiray/staffhub/pkg/sanitize"
	"github.com/google/uuid"
)

// endingWindowDays is how far ahead the ending-projects sweep looks
const endingWindowDays = 30

// AssignmentService owns the assignment lifecycle and keeps collaborator
// status consistent with it. Every mutation runs in one transaction.
type AssignmentService struct {
	clock
	db               *sql.DB
	assignmentRepo   *repositories.AssignmentRepository
	collaboratorRepo *repositories.CollaboratorRepository
	projectRepo      *repositories.ProjectRepository
}

func NewAssignmentService(
	db *sql.DB,
	assignmentRepo *repositories.AssignmentRepository,
	collaboratorRepo *repositories.CollaboratorRepository,
	projectRepo *repositories.ProjectRepository,
) *AssignmentService {
	return &AssignmentService{
		clock:            clock{Now: time.Now},
		db:               db,
		assignmentRepo:   assignmentRepo,
		collaboratorRepo: collaboratorRepo,
		projectRepo:      projectRepo,
	}
}

// txRepos groups the repositories bound to one transaction
type txRepos struct {
	assignments   *repositories.AssignmentRepository
	collaborators *repositories.CollaboratorRepository
	projects      *repositories.ProjectRepository
}

func (s *AssignmentService) inTx(fn func(r txRepos) error) error {
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		return fn(txRepos{
			assignments:   s.assignmentRepo.WithTx(tx),
			collaborators: s.collaboratorRepo.WithTx(tx),
			projects:      s.projectRepo.WithTx(tx),
		})
	})
}

// GetAllAssignments retrieves every assignment
func (s *AssignmentService) GetAllAssignments() ([]*models.Assignment, error) {
	return s.assignmentRepo.GetAll()
}

// GetAssignmentByID retrieves an assignment by ID
func (s *AssignmentService) GetAssignmentByID(id string) (*models.Assignment, error) {
	if err := validateID("Assignment", id); err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByID(id)
}

// GetAssignmentsByCollaborator retrieves the assignments of a collaborator
func (s *AssignmentService) GetAssignmentsByCollaborator(collaboratorID string) ([]*models.Assignment, error) {
	if err := validateID("Collaborator", collaboratorID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByCollaborator(collaboratorID)
}

// GetAssignmentsByProject retrieves the assignments of a project
func (s *AssignmentService) GetAssignmentsByProject(projectID string) ([]*models.Assignment, error) {
	if err := validateID("Project", projectID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByProject(projectID)
}

// GetActiveAssignments retrieves assignments on projects that can still take staff
func (s *AssignmentService) GetActiveAssignments() ([]*models.Assignment, error) {
	return s.assignmentRepo.GetByProjectStatus(models.ProjectStarting, models.ProjectInProgress, models.ProjectPaused)
}

// CreateAssignment assigns a collaborator to a project. Preconditions are
// checked in a fixed order and the first failure is reported.
func (s *AssignmentService) CreateAssignment(req *models.AssignmentRequest) (*models.Assignment, error) {
	if err := validateID("Collaborator", req.CollaboratorID); err != nil {
		return nil, err
	}
	if err := validateID("Project", req.ProjectID); err != nil {
		return nil, err
	}

	var created *models.Assignment
	err := s.inTx(func(r txRepos) error {
		collaborator, err := r.collaborators.GetByID(req.CollaboratorID)
		if err != nil {
			return err
		}

		busy, err := s.hasOngoingAssignment(r, req.CollaboratorID)
		if err != nil {
			return err
		}
		if busy {
			return models.NewStateError("collaborator %s is already assigned to an active project", collaborator.Name)
		}
		if collaborator.Status == models.CollaboratorOnLeave {
			return models.NewStateError("collaborator %s is on leave and cannot be assigned", collaborator.Name)
		}
		if collaborator.Status != models.CollaboratorAvailable {
			return models.NewStateError("collaborator %s is not available", collaborator.Name)
		}

		project, err := r.projects.GetByID(req.ProjectID)
		if err != nil {
			return err
		}
		if project.Status == models.ProjectCompleted {
			return models.NewStateError("cannot assign a collaborator to completed project %s", project.Name)
		}
		if !project.Status.Assignable() {
			return models.NewStateError("project %s is not in an assignable state", project.Name)
		}

		count, err := r.assignments.CountByProject(req.ProjectID)
		if err != nil {
			return err
		}
		if count >= project.TeamSize {
			return models.NewStateError("project team is full (maximum size: %d)", project.TeamSize)
		}

		now := s.now()
		assignment := models.NewAssignment(collaborator.ID, project.ID, sanitize.Text(req.Role), sanitize.Text(req.Notes), now)
		if err := r.assignments.Create(assignment); err != nil {
			if repositories.IsUniqueViolation(err) {
				return models.NewStateError("collaborator %s is already assigned to project %s", collaborator.Name, project.Name)
			}
			return err
		}
		if err := r.collaborators.UpdateStatus(collaborator.ID.String(), models.CollaboratorOnMission, now); err != nil {
			return err
		}

		assignment.CollaboratorName = collaborator.Name
		assignment.ProjectName = project.Name
		created = assignment
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return created, nil
}

// hasOngoingAssignment reports an assignment to a project that can still
// take staff and has not passed its end date. Any assignable status counts,
// not only IN_PROGRESS: a collaborator staffed on a STARTING or PAUSED
// project is already taken.
func (s *AssignmentService) hasOngoingAssignment(r txRepos, collaboratorID string) (bool, error) {
	projects, err := r.projects.GetByCollaborator(collaboratorID)
	if err != nil {
		return false, err
	}
	now := s.now()
	for _, p := range projects {
		if p.Status.Assignable() && !p.IsPastDue(now) {
			return true, nil
		}
	}
	return false, nil
}

// UpdateAssignment changes role and notes; the linked collaborator and
// project are immutable
func (s *AssignmentService) UpdateAssignment(id string, req *models.AssignmentUpdateRequest) (*models.Assignment, error) {
	if err := validateID("Assignment", id); err != nil {
		return nil, err
	}

	var updated *models.Assignment
	err := s.inTx(func(r txRepos) error {
		assignment, err := r.assignments.GetByID(id)
		if err != nil {
			return err
		}
		collaborator, err := r.collaborators.GetByID(assignment.CollaboratorID.String())
		if err != nil {
			return err
		}
		if collaborator.Status == models.CollaboratorOnLeave {
			return models.NewStateError("collaborator %s is on leave; the assignment cannot be changed", collaborator.Name)
		}
		project, err := r.projects.GetByID(assignment.ProjectID.String())
		if err != nil {
			return err
		}
		if project.Status == models.ProjectCompleted {
			return models.NewStateError("cannot change an assignment on completed project %s", project.Name)
		}

		assignment.Role = sanitize.Text(req.Role)
		assignment.Notes = sanitize.Text(req.Notes)
		if err := r.assignments.UpdateDetails(id, assignment.Role, assignment.Notes); err != nil {
			return err
		}
		updated = assignment
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return updated, nil
}

// DeleteAssignment removes an assignment and frees the collaborator
func (s *AssignmentService) DeleteAssignment(id string) error {
	if err := validateID("Assignment", id); err != nil {
		return err
	}

	err := s.inTx(func(r txRepos) error {
		assignment, err := r.assignments.GetByID(id)
		if err != nil {
			return err
		}
		project, err := r.projects.GetByID(assignment.ProjectID.String())
		if err != nil {
			return err
		}
		if project.Status.IsTerminal() {
			return models.NewStateError("cannot remove an assignment from %s project %s", project.Status, project.Name)
		}
		if err := r.collaborators.UpdateStatus(assignment.CollaboratorID.String(), models.CollaboratorAvailable, s.now()); err != nil {
			return err
		}
		return r.assignments.Delete(id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// RemoveCollaboratorsFromProject releases the listed collaborators from a
// project. A terminal project rejects the whole batch.
func (s *AssignmentService) RemoveCollaboratorsFromProject(projectID string, collaboratorIDs []string) (int, error) {
	if err := validateID("Project", projectID); err != nil {
		return 0, err
	}
	wanted := make(map[uuid.UUID]bool, len(collaboratorIDs))
	for _, id := range collaboratorIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return 0, models.NewValidationError("collaborator_ids", "invalid collaborator ID format")
		}
		wanted[parsed] = true
	}
	return s.removeFromProject(projectID, func(a *models.Assignment) bool { return wanted[a.CollaboratorID] })
}

// RemoveAllCollaboratorsFromProject releases every collaborator of a project
func (s *AssignmentService) RemoveAllCollaboratorsFromProject(projectID string) (int, error) {
	if err := validateID("Project", projectID); err != nil {
		return 0, err
	}
	return s.removeFromProject(projectID, func(*models.Assignment) bool { return true })
}

func (s *AssignmentService) removeFromProject(projectID string, selected func(*models.Assignment) bool) (int, error) {
	removed := 0
	err := s.inTx(func(r txRepos) error {
		project, err := r.projects.GetByID(projectID)
		if err != nil {
			return err
		}
		if project.Status.IsTerminal() {
			return models.NewStateError("cannot remove collaborators from %s project %s", project.Status, project.Name)
		}

		assignments, err := r.assignments.GetByProject(projectID)
		if err != nil {
			return err
		}
		now := s.now()
		for _, a := range assignments {
			if !selected(a) {
				continue
			}
			if err := r.collaborators.UpdateStatus(a.CollaboratorID.String(), models.CollaboratorAvailable, now); err != nil {
				return err
			}
			if err := r.assignments.Delete(a.ID.String()); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove collaborators from project: %w", err)
	}
	return removed, nil
}

// RemoveCollaboratorFromAllProjects deletes every assignment of a
// collaborator. The collaborator goes back to AVAILABLE only when at least
// one of the affected projects had not ended.
func (s *AssignmentService) RemoveCollaboratorFromAllProjects(collaboratorID string) (int, error) {
	if err := validateID("Collaborator", collaboratorID); err != nil {
		return 0, err
	}

	removed := 0
	err := s.inTx(func(r txRepos) error {
		if _, err := r.collaborators.GetByID(collaboratorID); err != nil {
			return err
		}
		assignments, err := r.assignments.GetByCollaborator(collaboratorID)
		if err != nil {
			return err
		}

		release := false
		for _, a := range assignments {
			project, err := r.projects.GetByID(a.ProjectID.String())
			if err != nil {
				return err
			}
			if !project.Status.IsTerminal() {
				release = true
			}
			if err := r.assignments.Delete(a.ID.String()); err != nil {
				return err
			}
			removed++
		}
		if release {
			return r.collaborators.UpdateStatus(collaboratorID, models.CollaboratorAvailable, s.now())
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove collaborator from projects: %w", err)
	}
	return removed, nil
}

// RemoveCollaboratorsFromEndingProjects deletes every assignment whose
// project ends before today plus the sweep window, releasing the collaborator
// unless the project already ended. Projects without an end date are kept.
func (s *AssignmentService) RemoveCollaboratorsFromEndingProjects() (int, error) {
	cutoff := s.today().AddDate(0, 0, endingWindowDays)

	removed := 0
	err := s.inTx(func(r txRepos) error {
		assignments, err := r.assignments.GetAll()
		if err != nil {
			return err
		}

		projects := make(map[uuid.UUID]*models.Project)
		now := s.now()
		for _, a := range assignments {
			project, ok := projects[a.ProjectID]
			if !ok {
				if project, err = r.projects.GetByID(a.ProjectID.String()); err != nil {
					return err
				}
				projects[a.ProjectID] = project
			}
			if project.EndDate == nil || !project.EndDate.Before(cutoff) {
				continue
			}

			if !project.Status.IsTerminal() {
				if err := r.collaborators.UpdateStatus(a.CollaboratorID.String(), models.CollaboratorAvailable, now); err != nil {
					return err
				}
			}
			if err := r.assignments.Delete(a.ID.String()); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep ending projects: %w", err)
	}

	logger.Component("assignments").WithField("removed", removed).Info("Ending-project sweep finished")
	return removed, nil
}

// GetRemovalStatistics summarizes active assignments and those ending soon.
// "Ending soon" is strictly after today and strictly before the window end.
func (s *AssignmentService) GetRemovalStatistics() (*models.RemovalStatistics, error) {
	active, err := s.GetActiveAssignments()
	if err != nil {
		return nil, err
	}

	today := s.today()
	cutoff := today.AddDate(0, 0, endingWindowDays)
	stats := &models.RemovalStatistics{ActiveAssignments: len(active)}
	released := make(map[uuid.UUID]bool)
	projects := make(map[uuid.UUID]*models.Project)

	for _, a := range active {
		project, ok := projects[a.ProjectID]
		if !ok {
			if project, err = s.projectRepo.GetByID(a.ProjectID.String()); err != nil {
				return nil, err
			}
			projects[a.ProjectID] = project
		}
		if project.EndDate == nil || !project.EndDate.After(today) || !project.EndDate.Before(cutoff) {
			continue
		}
		stats.EndingSoon++
		released[a.CollaboratorID] = true
	}
	stats.CollaboratorsToBeReleased = len(released)
	return stats, nil
}

// CanRemoveCollaborator reports whether none of the collaborator's
// assignments is on a project in progress
func (s *AssignmentService) CanRemoveCollaborator(collaboratorID string) (bool, error) {
	if err := validateID("Collaborator", collaboratorID); err != nil {
		return false, err
	}
	if _, err := s.collaboratorRepo.GetByID(collaboratorID); err != nil {
		return false, err
	}
	projects, err := s.projectRepo.GetByCollaborator(collaboratorID)
	if err != nil {
		return false, err
	}
	for _, p := range projects {
		if p.Status == models.ProjectInProgress {
			return false, nil
		}
	}
	return true, nil
}
