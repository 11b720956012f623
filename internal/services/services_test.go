package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/cache"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testNow is a Monday morning; every service in a test env reads it
var testNow = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func init() {
	bcryptCost = bcrypt.MinCost
}

type testEnv struct {
	db            *sql.DB
	skills        *SkillService
	collaborators *CollaboratorService
	projects      *ProjectService
	assignments   *AssignmentService
	alerts        *ProjectAlertService
	statistics    *StatisticsService
	notifications *NotificationService
	users         *UserService
	auth          *AuthService
	jobs          *JobService
	export        *ExportService

	alertRepo *repositories.ProjectAlertRepository
	jobRepo   *repositories.JobRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "staffhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	skillRepo := repositories.NewSkillRepository(db)
	collaboratorRepo := repositories.NewCollaboratorRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	alertRepo := repositories.NewProjectAlertRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	env := &testEnv{db: db, alertRepo: alertRepo, jobRepo: jobRepo}
	env.skills = NewSkillService(skillRepo, cache.New[string, models.Skill](16, time.Minute))
	env.collaborators = NewCollaboratorService(db, collaboratorRepo, projectRepo, assignmentRepo, env.skills)
	env.projects = NewProjectService(db, projectRepo, assignmentRepo, collaboratorRepo, env.skills)
	env.assignments = NewAssignmentService(db, assignmentRepo, collaboratorRepo, projectRepo)
	env.alerts = NewProjectAlertService(db, alertRepo, projectRepo, assignmentRepo, collaboratorRepo)
	env.statistics = NewStatisticsService(collaboratorRepo, projectRepo, assignmentRepo, skillRepo)
	env.notifications = NewNotificationService(notificationRepo)
	env.users = NewUserService(userRepo, cache.New[string, models.User](16, time.Minute))
	env.auth = NewAuthService(userRepo, "test-secret", time.Hour)
	env.jobs = NewJobService(jobRepo, env.alerts, env.assignments, env.notifications)
	env.export = NewExportService(collaboratorRepo, projectRepo, assignmentRepo)

	env.setNow(testNow)
	return env
}

func (e *testEnv) setNow(now time.Time) {
	fixed := func() time.Time { return now }
	e.collaborators.Now = fixed
	e.projects.Now = fixed
	e.assignments.Now = fixed
	e.alerts.Now = fixed
	e.statistics.Now = fixed
	e.notifications.Now = fixed
	e.users.Now = fixed
	e.auth.Now = fixed
	e.jobs.Now = fixed
}

func (e *testEnv) collaborator(t *testing.T, name string, skills ...string) *models.Collaborator {
	t.Helper()
	c, err := e.collaborators.CreateCollaborator(&models.CollaboratorRequest{
		Name:            name,
		Email:           name + "@example.com",
		Role:            "Developer",
		ExperienceYears: 3,
		Skills:          skills,
	})
	require.NoError(t, err)
	return c
}

// project creates a project starting on 2024-05-01; an empty endDate leaves it open
func (e *testEnv) project(t *testing.T, name string, teamSize int, status models.ProjectStatus, endDate string, skills ...string) *models.Project {
	t.Helper()
	p, err := e.projects.CreateProject(&models.ProjectRequest{
		Name:           name,
		Client:         "Acme",
		ProjectManager: "Jane",
		StartDate:      "2024-05-01",
		EndDate:        endDate,
		TeamSize:       teamSize,
		Status:         status,
		RequiredSkills: skills,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) assign(collaborator *models.Collaborator, project *models.Project) (*models.Assignment, error) {
	return e.assignments.CreateAssignment(&models.AssignmentRequest{
		CollaboratorID: collaborator.ID.String(),
		ProjectID:      project.ID.String(),
		Role:           "Developer",
	})
}

func daysFromNow(days int) string {
	return testNow.AddDate(0, 0, days).Format(models.DateLayout)
}
