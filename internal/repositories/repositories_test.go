package repositories

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newCollaborator(name, email string) *models.Collaborator {
	return &models.Collaborator{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Status:    models.CollaboratorAvailable,
		Active:    true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func newProject(name string, end *time.Time) *models.Project {
	return &models.Project{
		ID:             uuid.New(),
		Name:           name,
		Client:         "ACME",
		ProjectManager: "Jane",
		StartDate:      models.StartOfDay(testNow),
		EndDate:        end,
		TeamSize:       3,
		Status:         models.ProjectStarting,
		Priority:       models.PriorityMedium,
		Active:         true,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestSkillRepositoryNameIsCaseInsensitive(t *testing.T) {
	repo := NewSkillRepository(setupDB(t))

	require.NoError(t, repo.Create(models.NewSkill("Golang", "")))

	found, err := repo.GetByName("golang")
	require.NoError(t, err)
	assert.Equal(t, "Golang", found.Name)
	assert.Equal(t, models.DefaultSkillCategory, found.Category)

	err = repo.Create(models.NewSkill("GOLANG", "Backend"))
	assert.True(t, IsUniqueViolation(err))

	_, err = repo.GetByName("rust")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCollaboratorRepositoryRoundTrip(t *testing.T) {
	db := setupDB(t)
	skills := NewSkillRepository(db)
	repo := NewCollaboratorRepository(db)

	goSkill := models.NewSkill("Go", "")
	require.NoError(t, skills.Create(goSkill))

	c := newCollaborator("Ana", "ana@example.com")
	c.Skills = []*models.Skill{goSkill}
	require.NoError(t, repo.Create(c))

	loaded, err := repo.GetByID(c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Ana", loaded.Name)
	assert.True(t, loaded.Active)
	assert.True(t, loaded.CreatedAt.Equal(testNow))
	require.Len(t, loaded.Skills, 1)
	assert.Equal(t, "Go", loaded.Skills[0].Name)

	bySkill, err := repo.GetBySkill("go")
	require.NoError(t, err)
	assert.Len(t, bySkill, 1)

	found, err := repo.Search("ANA@")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.UpdateStatus(c.ID.String(), models.CollaboratorOnLeave, testNow))
	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.CollaboratorOnLeave])

	err = repo.UpdateStatus(uuid.NewString(), models.CollaboratorAvailable, testNow)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProjectRepositoryKeepsOptionalEndDate(t *testing.T) {
	db := setupDB(t)
	repo := NewProjectRepository(db)

	end := models.StartOfDay(testNow).AddDate(0, 0, 10)
	withEnd := newProject("Apollo", &end)
	openEnded := newProject("Gemini", nil)
	require.NoError(t, repo.Create(withEnd))
	require.NoError(t, repo.Create(openEnded))

	loaded, err := repo.GetByID(withEnd.ID.String())
	require.NoError(t, err)
	require.NotNil(t, loaded.EndDate)
	assert.True(t, loaded.EndDate.Equal(end))

	loaded, err = repo.GetByID(openEnded.ID.String())
	require.NoError(t, err)
	assert.Nil(t, loaded.EndDate)

	starting, err := repo.GetByStatus(models.ProjectStarting, models.ProjectPaused)
	require.NoError(t, err)
	assert.Len(t, starting, 2)

	found, err := repo.SearchByName("apol", nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Apollo", found[0].Name)
}

func TestDeletingProjectCascadesAssignments(t *testing.T) {
	db := setupDB(t)
	collaborators := NewCollaboratorRepository(db)
	projects := NewProjectRepository(db)
	assignments := NewAssignmentRepository(db)

	c := newCollaborator("Ana", "ana@example.com")
	p := newProject("Apollo", nil)
	require.NoError(t, collaborators.Create(c))
	require.NoError(t, projects.Create(p))
	require.NoError(t, assignments.Create(models.NewAssignment(c.ID, p.ID, "dev", "", testNow)))

	list, err := assignments.GetByProject(p.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].CollaboratorName)
	assert.Equal(t, "Apollo", list[0].ProjectName)

	err = assignments.Create(models.NewAssignment(c.ID, p.ID, "dev", "", testNow))
	assert.True(t, IsUniqueViolation(err))

	require.NoError(t, projects.Delete(p.ID.String()))
	count, err := assignments.CountByCollaborator(c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpenAlertIsUniquePerProjectAndType(t *testing.T) {
	db := setupDB(t)
	projects := NewProjectRepository(db)
	alerts := NewProjectAlertRepository(db)

	p := newProject("Apollo", nil)
	require.NoError(t, projects.Create(p))

	first := models.NewProjectAlert(p.ID, models.AlertResourceShortage, models.SeverityHigh, "no team", testNow)
	require.NoError(t, alerts.Create(first))

	exists, err := alerts.ExistsUnresolved(p.ID.String(), models.AlertResourceShortage)
	require.NoError(t, err)
	assert.True(t, exists)

	duplicate := models.NewProjectAlert(p.ID, models.AlertResourceShortage, models.SeverityHigh, "no team", testNow)
	assert.True(t, IsUniqueViolation(alerts.Create(duplicate)))

	require.NoError(t, alerts.Resolve(first.ID.String()))
	require.NoError(t, alerts.Create(duplicate), "a resolved alert no longer blocks a new one")

	high, err := alerts.GetUnresolvedBySeverity(models.SeverityHigh, models.SeverityCritical)
	require.NoError(t, err)
	assert.Len(t, high, 1)

	assert.ErrorIs(t, alerts.Resolve(uuid.NewString()), models.ErrNotFound)
}

func TestNotificationCleanupKeepsUnreadAndRecent(t *testing.T) {
	repo := NewNotificationRepository(setupDB(t))
	old := testNow.AddDate(0, 0, -40)

	readOld := models.NewNotification("a@example.com", models.NotificationSystem, "t", "m", "", models.NotificationLow, old)
	readOld.Read = true
	unreadOld := models.NewNotification("a@example.com", models.NotificationSystem, "t", "m", "", models.NotificationLow, old)
	readRecent := models.NewNotification("a@example.com", models.NotificationSystem, "t", "m", "", models.NotificationLow, testNow)
	readRecent.Read = true

	for _, n := range []*models.Notification{readOld, unreadOld, readRecent} {
		require.NoError(t, repo.Create(n))
	}

	removed, err := repo.DeleteReadBefore(testNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	remaining, err := repo.GetByRecipient("a@example.com")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	recent, err := repo.GetSince("a@example.com", testNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestJobRepositoryRecordsOutcome(t *testing.T) {
	repo := NewJobRepository(setupDB(t))

	job := models.NewJob(models.JobTypeAlertScan, "alert-scan-1", testNow)
	require.NoError(t, repo.Create(job))

	job.Complete(4, testNow.Add(time.Second))
	require.NoError(t, repo.Finish(job))

	loaded, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, loaded.Status)
	assert.Equal(t, 4, loaded.AffectedCount)
	require.NotNil(t, loaded.CompletedAt)

	recent, err := repo.GetRecent(models.JobTypeEndingSweep, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
