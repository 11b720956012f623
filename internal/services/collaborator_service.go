package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/alimgiray/staffhub/pkg/sanitize"
	"github.com/google/uuid"
)

type CollaboratorService struct {
	clock
	db               *sql.DB
	collaboratorRepo *repositories.CollaboratorRepository
	projectRepo      *repositories.ProjectRepository
	assignmentRepo   *repositories.AssignmentRepository
	skillService     *SkillService
}

func NewCollaboratorService(
	db *sql.DB,
	collaboratorRepo *repositories.CollaboratorRepository,
	projectRepo *repositories.ProjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
	skillService *SkillService,
) *CollaboratorService {
	return &CollaboratorService{
		clock:            clock{Now: time.Now},
		db:               db,
		collaboratorRepo: collaboratorRepo,
		projectRepo:      projectRepo,
		assignmentRepo:   assignmentRepo,
		skillService:     skillService,
	}
}

// GetCollaboratorByID retrieves a collaborator by ID
func (s *CollaboratorService) GetCollaboratorByID(id string) (*models.Collaborator, error) {
	if err := validateID("Collaborator", id); err != nil {
		return nil, err
	}
	return s.collaboratorRepo.GetByID(id)
}

// GetAllCollaborators retrieves active and inactive collaborators
func (s *CollaboratorService) GetAllCollaborators() ([]*models.Collaborator, error) {
	return s.collaboratorRepo.GetAll()
}

// GetActiveCollaborators retrieves collaborators that are not soft-deleted
func (s *CollaboratorService) GetActiveCollaborators() ([]*models.Collaborator, error) {
	return s.collaboratorRepo.GetByActive(true)
}

// GetInactiveCollaborators retrieves soft-deleted collaborators
func (s *CollaboratorService) GetInactiveCollaborators() ([]*models.Collaborator, error) {
	return s.collaboratorRepo.GetByActive(false)
}

// GetCollaboratorsByStatus retrieves active collaborators in a status
func (s *CollaboratorService) GetCollaboratorsByStatus(status models.CollaboratorStatus) ([]*models.Collaborator, error) {
	if !status.Valid() {
		return nil, models.ErrCollaboratorStatusInvalid
	}
	return s.collaboratorRepo.GetActiveByStatus(status)
}

// GetOnLeaveCollaborators retrieves active collaborators on leave
func (s *CollaboratorService) GetOnLeaveCollaborators() ([]*models.Collaborator, error) {
	return s.collaboratorRepo.GetActiveByStatus(models.CollaboratorOnLeave)
}

// SearchCollaborators matches name or email
func (s *CollaboratorService) SearchCollaborators(query string) ([]*models.Collaborator, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.collaboratorRepo.GetAll()
	}
	return s.collaboratorRepo.Search(query)
}

// GetCollaboratorsBySkill retrieves collaborators holding a skill
func (s *CollaboratorService) GetCollaboratorsBySkill(skillName string) ([]*models.Collaborator, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, models.NewValidationError("skillName", "Skill name is required")
	}
	return s.collaboratorRepo.GetBySkill(skillName)
}

// GetCollaboratorsByProject retrieves the collaborators assigned to a project
func (s *CollaboratorService) GetCollaboratorsByProject(projectID string) ([]*models.Collaborator, error) {
	if err := validateID("Project", projectID); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(projectID); err != nil {
		return nil, err
	}
	return s.collaboratorRepo.GetByProject(projectID)
}

// GetAvailableCollaborators lists active AVAILABLE collaborators with no
// assignment whose project runs on date
func (s *CollaboratorService) GetAvailableCollaborators(date time.Time) ([]*models.Collaborator, error) {
	candidates, err := s.collaboratorRepo.GetActiveByStatus(models.CollaboratorAvailable)
	if err != nil {
		return nil, err
	}
	return s.filterFree(candidates, func(p *models.Project) bool { return p.Covers(date) })
}

// GetAvailableCollaboratorsForPeriod lists active collaborators not on leave
// whose assignments do not overlap [start, end]
func (s *CollaboratorService) GetAvailableCollaboratorsForPeriod(start, end time.Time) ([]*models.Collaborator, error) {
	if end.Before(start) {
		return nil, models.NewValidationError("endDate", "End date must not be before start date")
	}
	active, err := s.collaboratorRepo.GetByActive(true)
	if err != nil {
		return nil, err
	}

	candidates := []*models.Collaborator{}
	for _, c := range active {
		if c.Status != models.CollaboratorOnLeave {
			candidates = append(candidates, c)
		}
	}
	return s.filterFree(candidates, func(p *models.Project) bool { return p.Overlaps(start, end) })
}

// filterFree keeps the collaborators with no assigned project matching busy
func (s *CollaboratorService) filterFree(candidates []*models.Collaborator, busy func(*models.Project) bool) ([]*models.Collaborator, error) {
	free := []*models.Collaborator{}
	for _, c := range candidates {
		projects, err := s.projectRepo.GetByCollaborator(c.ID.String())
		if err != nil {
			return nil, err
		}
		occupied := false
		for _, p := range projects {
			if busy(p) {
				occupied = true
				break
			}
		}
		if !occupied {
			free = append(free, c)
		}
	}
	return free, nil
}

// CreateCollaborator creates a collaborator, resolving skills by name
func (s *CollaboratorService) CreateCollaborator(req *models.CollaboratorRequest) (*models.Collaborator, error) {
	now := s.now()
	c := &models.Collaborator{
		ID:              uuid.New(),
		Name:            sanitize.Text(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Role:            sanitize.Text(req.Role),
		Grade:           sanitize.Text(req.Grade),
		ExperienceYears: req.ExperienceYears,
		Status:          req.Status,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if c.Status == "" {
		c.Status = models.CollaboratorAvailable
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.collaboratorRepo.WithTx(tx)
		if _, err := repo.GetByEmail(c.Email); err == nil {
			return models.NewStateError("a collaborator with email %s already exists", c.Email)
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		skills, err := s.skillService.ResolveSkills(tx, req.Skills)
		if err != nil {
			return err
		}
		c.Skills = skills
		return repo.Create(c)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collaborator: %w", err)
	}
	return c, nil
}

// UpdateCollaborator updates a collaborator. The status may not change while
// the collaborator is assigned to an active project unless the request
// releases those assignments in the same transaction.
func (s *CollaboratorService) UpdateCollaborator(id string, req *models.CollaboratorRequest) (*models.Collaborator, error) {
	if err := validateID("Collaborator", id); err != nil {
		return nil, err
	}

	var updated *models.Collaborator
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.collaboratorRepo.WithTx(tx)
		c, err := repo.GetByID(id)
		if err != nil {
			return err
		}

		newStatus := req.Status
		if newStatus == "" {
			newStatus = c.Status
		}
		if newStatus != c.Status {
			if err := s.releaseForStatusChange(tx, c, req.ReleaseAssignments); err != nil {
				return err
			}
		}

		email := strings.TrimSpace(req.Email)
		if email != "" && !strings.EqualFold(email, c.Email) {
			if _, err := repo.GetByEmail(email); err == nil {
				return models.NewStateError("a collaborator with email %s already exists", email)
			} else if !errors.Is(err, models.ErrNotFound) {
				return err
			}
			c.Email = email
		}

		c.Name = sanitize.Text(req.Name)
		c.Phone = strings.TrimSpace(req.Phone)
		c.Role = sanitize.Text(req.Role)
		c.Grade = sanitize.Text(req.Grade)
		c.ExperienceYears = req.ExperienceYears
		c.Status = newStatus
		c.UpdatedAt = s.now()
		if err := c.Validate(); err != nil {
			return err
		}

		if req.Skills != nil {
			if c.Skills, err = s.skillService.ResolveSkills(tx, req.Skills); err != nil {
				return err
			}
		}
		if err := repo.Update(c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update collaborator: %w", err)
	}
	return updated, nil
}

// releaseForStatusChange enforces the status invariant for an update
func (s *CollaboratorService) releaseForStatusChange(tx *sql.Tx, c *models.Collaborator, release bool) error {
	assignmentRepo := s.assignmentRepo.WithTx(tx)
	projectRepo := s.projectRepo.WithTx(tx)

	assignments, err := assignmentRepo.GetByCollaborator(c.ID.String())
	if err != nil {
		return err
	}

	var blocking []*models.Assignment
	for _, a := range assignments {
		p, err := projectRepo.GetByID(a.ProjectID.String())
		if err != nil {
			return err
		}
		if p.Active {
			blocking = append(blocking, a)
		}
	}
	if len(blocking) == 0 {
		return nil
	}
	if !release {
		return models.NewStateError("cannot change the status of %s while assigned to an active project", c.Name)
	}
	for _, a := range blocking {
		if err := assignmentRepo.Delete(a.ID.String()); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCollaborator deletes a collaborator without assignments
func (s *CollaboratorService) DeleteCollaborator(id string) error {
	if err := validateID("Collaborator", id); err != nil {
		return err
	}
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		if err := s.ensureUnassigned(tx, id); err != nil {
			return err
		}
		return s.collaboratorRepo.WithTx(tx).Delete(id)
	})
}

// DeactivateCollaborator soft-deletes a collaborator without assignments
func (s *CollaboratorService) DeactivateCollaborator(id string) error {
	return s.DeactivateCollaborators([]string{id})
}

// DeactivateCollaborators soft-deletes every listed collaborator or none of them
func (s *CollaboratorService) DeactivateCollaborators(ids []string) error {
	if len(ids) == 0 {
		return models.NewValidationError("ids", "At least one collaborator ID is required")
	}
	for _, id := range ids {
		if err := validateID("Collaborator", id); err != nil {
			return err
		}
	}

	now := s.now()
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.collaboratorRepo.WithTx(tx)
		for _, id := range ids {
			if err := s.ensureUnassigned(tx, id); err != nil {
				return err
			}
			if err := repo.SetActive(id, false, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReactivateCollaborator restores a soft-deleted collaborator
func (s *CollaboratorService) ReactivateCollaborator(id string) error {
	return s.ReactivateCollaborators([]string{id})
}

// ReactivateCollaborators restores every listed collaborator or none of them
func (s *CollaboratorService) ReactivateCollaborators(ids []string) error {
	if len(ids) == 0 {
		return models.NewValidationError("ids", "At least one collaborator ID is required")
	}
	for _, id := range ids {
		if err := validateID("Collaborator", id); err != nil {
			return err
		}
	}

	now := s.now()
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.collaboratorRepo.WithTx(tx)
		for _, id := range ids {
			if err := repo.SetActive(id, true, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CollaboratorService) ensureUnassigned(tx *sql.Tx, id string) error {
	c, err := s.collaboratorRepo.WithTx(tx).GetByID(id)
	if err != nil {
		return err
	}
	count, err := s.assignmentRepo.WithTx(tx).CountByCollaborator(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewStateError("collaborator %s still has %d assignment(s)", c.Name, count)
	}
	return nil
}
