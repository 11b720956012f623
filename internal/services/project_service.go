package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/alimgiray/staffhub/pkg/sanitize"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ProjectService struct {
	clock
	db               *sql.DB
	projectRepo      *repositories.ProjectRepository
	assignmentRepo   *repositories.AssignmentRepository
	collaboratorRepo *repositories.CollaboratorRepository
	skillService     *SkillService
}

func NewProjectService(
	db *sql.DB,
	projectRepo *repositories.ProjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
	collaboratorRepo *repositories.CollaboratorRepository,
	skillService *SkillService,
) *ProjectService {
	return &ProjectService{
		clock:            clock{Now: time.Now},
		db:               db,
		projectRepo:      projectRepo,
		assignmentRepo:   assignmentRepo,
		collaboratorRepo: collaboratorRepo,
		skillService:     skillService,
	}
}

// GetProjectByID retrieves a project by ID
func (s *ProjectService) GetProjectByID(id string) (*models.Project, error) {
	if err := validateID("Project", id); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(id)
}

// GetAllProjects retrieves active and inactive projects
func (s *ProjectService) GetAllProjects() ([]*models.Project, error) {
	return s.projectRepo.GetAll()
}

// GetActiveProjects retrieves projects that are not soft-deleted
func (s *ProjectService) GetActiveProjects() ([]*models.Project, error) {
	return s.projectRepo.GetByActive(true)
}

// GetInactiveProjects retrieves soft-deleted projects
func (s *ProjectService) GetInactiveProjects() ([]*models.Project, error) {
	return s.projectRepo.GetByActive(false)
}

// GetProjectsByStatus retrieves projects in a status
func (s *ProjectService) GetProjectsByStatus(status models.ProjectStatus) ([]*models.Project, error) {
	if !status.Valid() {
		return nil, models.ErrProjectStatusInvalid
	}
	return s.projectRepo.GetByStatus(status)
}

// GetInProgressProjects retrieves projects currently running
func (s *ProjectService) GetInProgressProjects() ([]*models.Project, error) {
	return s.projectRepo.GetByStatus(models.ProjectInProgress)
}

// GetProjectsByClient retrieves the projects of a client
func (s *ProjectService) GetProjectsByClient(client string) ([]*models.Project, error) {
	return s.projectRepo.GetByClient(strings.TrimSpace(client))
}

// GetProjectsBySkill retrieves projects requiring a skill
func (s *ProjectService) GetProjectsBySkill(skillName string) ([]*models.Project, error) {
	return s.projectRepo.GetBySkills(strings.TrimSpace(skillName))
}

// GetProjectsBySkills retrieves projects requiring any of the skills
func (s *ProjectService) GetProjectsBySkills(skillNames []string) ([]*models.Project, error) {
	var names []string
	for _, name := range skillNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return s.projectRepo.GetBySkills(names...)
}

// GetProjectsByCollaborator retrieves the projects a collaborator is assigned to
func (s *ProjectService) GetProjectsByCollaborator(collaboratorID string) ([]*models.Project, error) {
	if err := validateID("Collaborator", collaboratorID); err != nil {
		return nil, err
	}
	if _, err := s.collaboratorRepo.GetByID(collaboratorID); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByCollaborator(collaboratorID)
}

// GetCriticalProjects retrieves active projects past their end date that are not completed
func (s *ProjectService) GetCriticalProjects() ([]*models.Project, error) {
	projects, err := s.projectRepo.GetByActive(true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	critical := []*models.Project{}
	for _, p := range projects {
		if p.Status != models.ProjectCompleted && p.IsPastDue(now) {
			critical = append(critical, p)
		}
	}
	return critical, nil
}

// SearchProjects filters, sorts and pages projects
func (s *ProjectService) SearchProjects(criteria models.ProjectSearchCriteria) (*models.Page[*models.Project], error) {
	for _, status := range criteria.Statuses {
		if !status.Valid() {
			return nil, models.ErrProjectStatusInvalid
		}
	}
	if criteria.Page < 0 {
		criteria.Page = 0
	}
	if criteria.Size <= 0 {
		criteria.Size = defaultPageSize
	}
	if criteria.Size > maxPageSize {
		criteria.Size = maxPageSize
	}

	candidates, err := s.projectRepo.SearchByName(strings.TrimSpace(criteria.Name), criteria.Statuses)
	if err != nil {
		return nil, err
	}

	now := s.now()
	matched := []*models.Project{}
	for _, p := range candidates {
		if matchesCriteria(p, criteria, now) {
			matched = append(matched, p)
		}
	}

	if err := sortProjects(matched, criteria.SortBy, criteria.SortDirection); err != nil {
		return nil, err
	}

	page := &models.Page[*models.Project]{
		Content:       []*models.Project{},
		Page:          criteria.Page,
		Size:          criteria.Size,
		TotalElements: len(matched),
		TotalPages:    (len(matched) + criteria.Size - 1) / criteria.Size,
	}
	start := criteria.Page * criteria.Size
	if start < len(matched) {
		end := start + criteria.Size
		if end > len(matched) {
			end = len(matched)
		}
		page.Content = matched[start:end]
	}
	return page, nil
}

func matchesCriteria(p *models.Project, c models.ProjectSearchCriteria, now time.Time) bool {
	if c.StartAfter != nil && p.StartDate.Before(*c.StartAfter) {
		return false
	}
	if c.StartBefore != nil && p.StartDate.After(*c.StartBefore) {
		return false
	}
	if c.EndAfter != nil && (p.EndDate == nil || p.EndDate.Before(*c.EndAfter)) {
		return false
	}
	if c.EndBefore != nil && (p.EndDate == nil || p.EndDate.After(*c.EndBefore)) {
		return false
	}
	if c.Critical && (p.Status == models.ProjectCompleted || !p.IsPastDue(now)) {
		return false
	}
	for _, required := range c.RequiredSkills {
		found := false
		for _, skill := range p.RequiredSkills {
			if strings.EqualFold(skill.Name, strings.TrimSpace(required)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortProjects(projects []*models.Project, sortBy, direction string) error {
	var less func(a, b *models.Project) bool
	switch strings.ToLower(sortBy) {
	case "", "name":
		less = func(a, b *models.Project) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "client":
		less = func(a, b *models.Project) bool { return strings.ToLower(a.Client) < strings.ToLower(b.Client) }
	case "startdate", "start_date":
		less = func(a, b *models.Project) bool { return a.StartDate.Before(b.StartDate) }
	case "enddate", "end_date":
		less = func(a, b *models.Project) bool {
			if a.EndDate == nil || b.EndDate == nil {
				return a.EndDate != nil
			}
			return a.EndDate.Before(*b.EndDate)
		}
	case "progress":
		less = func(a, b *models.Project) bool { return a.Progress < b.Progress }
	case "status":
		less = func(a, b *models.Project) bool { return a.Status < b.Status }
	case "createdat", "created_at":
		less = func(a, b *models.Project) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return models.NewValidationError("sortBy", fmt.Sprintf("unsupported sort field %q", sortBy))
	}

	switch strings.ToUpper(direction) {
	case "", "ASC":
		sort.SliceStable(projects, func(i, j int) bool { return less(projects[i], projects[j]) })
	case "DESC":
		sort.SliceStable(projects, func(i, j int) bool { return less(projects[j], projects[i]) })
	default:
		return models.NewValidationError("sortDirection", "sort direction must be ASC or DESC")
	}
	return nil
}

// CreateProject creates a project in STARTING status unless told otherwise
func (s *ProjectService) CreateProject(req *models.ProjectRequest) (*models.Project, error) {
	now := s.now()
	p := &models.Project{
		ID:        uuid.New(),
		Active:    true,
		CreatedAt: now,
	}
	if err := applyProjectRequest(p, req); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = models.ProjectStarting
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		skills, err := s.skillService.ResolveSkills(tx, req.RequiredSkills)
		if err != nil {
			return err
		}
		p.RequiredSkills = skills
		return s.projectRepo.WithTx(tx).Create(p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// UpdateProject updates a project; the team size may not drop below the
// current number of assignments
func (s *ProjectService) UpdateProject(id string, req *models.ProjectRequest) (*models.Project, error) {
	if err := validateID("Project", id); err != nil {
		return nil, err
	}

	var updated *models.Project
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.projectRepo.WithTx(tx)
		p, err := repo.GetByID(id)
		if err != nil {
			return err
		}

		status, priority := p.Status, p.Priority
		if err := applyProjectRequest(p, req); err != nil {
			return err
		}
		if p.Status == "" {
			p.Status = status
		}
		if p.Priority == "" {
			p.Priority = priority
		}
		p.UpdatedAt = s.now()
		if err := p.Validate(); err != nil {
			return err
		}

		count, err := s.assignmentRepo.WithTx(tx).CountByProject(id)
		if err != nil {
			return err
		}
		if p.TeamSize < count {
			return models.NewStateError("team size %d is below the %d current assignment(s)", p.TeamSize, count)
		}

		if req.RequiredSkills != nil {
			if p.RequiredSkills, err = s.skillService.ResolveSkills(tx, req.RequiredSkills); err != nil {
				return err
			}
		}
		if err := repo.Update(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

func applyProjectRequest(p *models.Project, req *models.ProjectRequest) error {
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return models.ErrProjectStartDateRequired
	}
	end, err := models.ParseOptionalDate(req.EndDate)
	if err != nil {
		return models.NewValidationError("end_date", "Project end date is invalid")
	}

	p.Name = sanitize.Text(req.Name)
	p.Description = sanitize.Text(req.Description)
	p.Client = sanitize.Text(req.Client)
	p.ProjectManager = sanitize.Text(req.ProjectManager)
	p.StartDate = start
	p.EndDate = end
	p.TeamSize = req.TeamSize
	p.Status = req.Status
	p.Priority = req.Priority
	p.Progress = req.Progress
	return nil
}

// DeleteProject deletes a project with its assignments, releasing the
// assigned collaborators unless the project already ended
func (s *ProjectService) DeleteProject(id string) error {
	if err := validateID("Project", id); err != nil {
		return err
	}

	released := 0
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)
		p, err := projectRepo.GetByID(id)
		if err != nil {
			return err
		}

		if !p.Status.IsTerminal() {
			assignments, err := s.assignmentRepo.WithTx(tx).GetByProject(id)
			if err != nil {
				return err
			}
			collaboratorRepo := s.collaboratorRepo.WithTx(tx)
			now := s.now()
			for _, a := range assignments {
				if err := collaboratorRepo.UpdateStatus(a.CollaboratorID.String(), models.CollaboratorAvailable, now); err != nil {
					return err
				}
				released++
			}
		}
		return projectRepo.Delete(id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logger.Component("projects").WithField("project_id", id).Infof("Deleted project, released %d collaborator(s)", released)
	return nil
}

// DeactivateProject soft-deletes a project
func (s *ProjectService) DeactivateProject(id string) error {
	if err := validateID("Project", id); err != nil {
		return err
	}
	return s.projectRepo.SetActive(id, false, s.now())
}

// ReactivateProject restores a soft-deleted project
func (s *ProjectService) ReactivateProject(id string) error {
	if err := validateID("Project", id); err != nil {
		return err
	}
	return s.projectRepo.SetActive(id, true, s.now())
}

// DeactivateProjects soft-deletes every listed project or none of them;
// projects that still have assignments block the batch
func (s *ProjectService) DeactivateProjects(ids []string) error {
	if len(ids) == 0 {
		return models.NewValidationError("ids", "At least one project ID is required")
	}
	for _, id := range ids {
		if err := validateID("Project", id); err != nil {
			return err
		}
	}

	now := s.now()
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.projectRepo.WithTx(tx)
		assignmentRepo := s.assignmentRepo.WithTx(tx)
		for _, id := range ids {
			p, err := repo.GetByID(id)
			if err != nil {
				return err
			}
			count, err := assignmentRepo.CountByProject(id)
			if err != nil {
				return err
			}
			if count > 0 {
				return models.NewStateError("project %s still has %d assignment(s)", p.Name, count)
			}
			if err := repo.SetActive(id, false, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReactivateProjects restores every listed project or none of them
func (s *ProjectService) ReactivateProjects(ids []string) error {
	if len(ids) == 0 {
		return models.NewValidationError("ids", "At least one project ID is required")
	}
	for _, id := range ids {
		if err := validateID("Project", id); err != nil {
			return err
		}
	}

	now := s.now()
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := s.projectRepo.WithTx(tx)
		for _, id := range ids {
			if err := repo.SetActive(id, true, now); err != nil {
				return err
			}
		}
		return nil
	})
}
