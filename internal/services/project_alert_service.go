package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/alimgiray/staffhub/pkg/logger"
)

const deadlineWarningDays = 7

type ProjectAlertService struct {
	clock
	db               *sql.DB
	alertRepo        *repositories.ProjectAlertRepository
	projectRepo      *repositories.ProjectRepository
	assignmentRepo   *repositories.AssignmentRepository
	collaboratorRepo *repositories.CollaboratorRepository
}

func NewProjectAlertService(
	db *sql.DB,
	alertRepo *repositories.ProjectAlertRepository,
	projectRepo *repositories.ProjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
	collaboratorRepo *repositories.CollaboratorRepository,
) *ProjectAlertService {
	return &ProjectAlertService{
		clock:            clock{Now: time.Now},
		db:               db,
		alertRepo:        alertRepo,
		projectRepo:      projectRepo,
		assignmentRepo:   assignmentRepo,
		collaboratorRepo: collaboratorRepo,
	}
}

// CheckForNewAlerts evaluates every project and records new risk alerts.
// A failing project is logged and skipped. Returns the number of alerts created.
func (s *ProjectAlertService) CheckForNewAlerts() (int, error) {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to load projects: %w", err)
	}

	log := logger.Component("alerts")
	created := 0
	for _, project := range projects {
		n, err := s.checkProject(project.ID.String())
		if err != nil {
			log.WithError(err).WithField("project_id", project.ID.String()).Error("Alert evaluation failed")
			continue
		}
		created += n
	}

	log.WithField("projects", len(projects)).Infof("Alert scan created %d alert(s)", created)
	return created, nil
}

// checkProject evaluates one project inside its own transaction so the
// duplicate check and the insert see the same state
func (s *ProjectAlertService) checkProject(projectID string) (int, error) {
	created := 0
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		project, err := s.projectRepo.WithTx(tx).GetByID(projectID)
		if err != nil {
			return err
		}
		candidates, err := s.evaluate(tx, project)
		if err != nil {
			return err
		}

		alertRepo := s.alertRepo.WithTx(tx)
		for _, alert := range candidates {
			exists, err := alertRepo.ExistsUnresolved(projectID, alert.Type)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := alertRepo.Create(alert); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}

// evaluate returns the alerts a project currently warrants
func (s *ProjectAlertService) evaluate(tx *sql.Tx, project *models.Project) ([]*models.ProjectAlert, error) {
	now := s.now()
	today := models.StartOfDay(now)
	var alerts []*models.ProjectAlert

	if project.EndDate != nil && project.Status != models.ProjectCompleted {
		days := models.DaysBetween(today, *project.EndDate)
		if days > 0 && days <= deadlineWarningDays {
			severity := models.SeverityMedium
			if days <= 3 {
				severity = models.SeverityHigh
			}
			alerts = append(alerts, models.NewProjectAlert(project.ID, models.AlertDeadlineApproaching, severity,
				fmt.Sprintf("Project %s is due in %d day(s)", project.Name, days), now))
		}
		if project.EndDate.Before(today) {
			alerts = append(alerts, models.NewProjectAlert(project.ID, models.AlertDeadlineMissed, models.SeverityCritical,
				fmt.Sprintf("Project %s is %d day(s) past its deadline", project.Name, -days), now))
		}
	}

	assignments, err := s.assignmentRepo.WithTx(tx).GetByProject(project.ID.String())
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		alerts = append(alerts, models.NewProjectAlert(project.ID, models.AlertResourceShortage, models.SeverityHigh,
			fmt.Sprintf("Project %s has no assigned collaborators", project.Name), now))
		return alerts, nil
	}

	collaboratorRepo := s.collaboratorRepo.WithTx(tx)
	team := make([]*models.Collaborator, 0, len(assignments))
	for _, a := range assignments {
		c, err := collaboratorRepo.GetByID(a.CollaboratorID.String())
		if err != nil {
			return nil, err
		}
		team = append(team, c)
	}
	if missing := missingSkills(project.RequiredSkills, team); len(missing) > 0 {
		alerts = append(alerts, models.NewProjectAlert(project.ID, models.AlertSkillGap, models.SeverityHigh,
			fmt.Sprintf("Project %s lacks required skills: %v", project.Name, missing), now))
	}
	return alerts, nil
}

// missingSkills lists required skills no team member holds
func missingSkills(required []*models.Skill, team []*models.Collaborator) []string {
	var missing []string
	for _, skill := range required {
		covered := false
		for _, c := range team {
			if c.HasSkill(skill.Name) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, skill.Name)
		}
	}
	return missing
}

// ResolveAlert marks an alert resolved
func (s *ProjectAlertService) ResolveAlert(id string) error {
	if err := validateID("Alert", id); err != nil {
		return err
	}
	return s.alertRepo.Resolve(id)
}

// GetActiveAlerts retrieves unresolved alerts, newest first
func (s *ProjectAlertService) GetActiveAlerts() ([]*models.ProjectAlert, error) {
	return s.alertRepo.GetUnresolved()
}

// GetHighPriorityAlerts retrieves unresolved HIGH and CRITICAL alerts
func (s *ProjectAlertService) GetHighPriorityAlerts() ([]*models.ProjectAlert, error) {
	return s.alertRepo.GetUnresolvedBySeverity(models.SeverityHigh, models.SeverityCritical)
}

// GetProjectAlerts retrieves the unresolved alerts of a project, newest first
func (s *ProjectAlertService) GetProjectAlerts(projectID string) ([]*models.ProjectAlert, error) {
	if err := validateID("Project", projectID); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(projectID); err != nil {
		return nil, err
	}
	return s.alertRepo.GetUnresolvedByProject(projectID)
}
