package services

import (
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDefaults(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.projects.CreateProject(&models.ProjectRequest{
		Name:           "Apollo",
		Client:         "Acme",
		ProjectManager: "Jane",
		StartDate:      "2024-06-01",
		TeamSize:       4,
		RequiredSkills: []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStarting, p.Status)
	assert.Equal(t, models.PriorityMedium, p.Priority)
	assert.Nil(t, p.EndDate)
	assert.True(t, p.Active)

	t.Run("end before start", func(t *testing.T) {
		_, err := env.projects.CreateProject(&models.ProjectRequest{
			Name: "Bad", Client: "Acme", ProjectManager: "Jane",
			StartDate: "2024-06-10", EndDate: "2024-06-01", TeamSize: 1,
		})
		assert.ErrorIs(t, err, models.ErrProjectDatesInvalid)
	})

	t.Run("team size required", func(t *testing.T) {
		_, err := env.projects.CreateProject(&models.ProjectRequest{
			Name: "Bad", Client: "Acme", ProjectManager: "Jane", StartDate: "2024-06-10",
		})
		assert.ErrorIs(t, err, models.ErrProjectTeamSizeInvalid)
	})
}

func TestUpdateProjectTeamSizeBelowAssignments(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t, "Apollo", 2, models.ProjectInProgress, "")
	_, err := env.assign(env.collaborator(t, "alice"), p)
	require.NoError(t, err)
	_, err = env.assign(env.collaborator(t, "bob"), p)
	require.NoError(t, err)

	req := &models.ProjectRequest{
		Name: "Apollo", Client: "Acme", ProjectManager: "Jane", StartDate: "2024-05-01", TeamSize: 1,
	}
	_, err = env.projects.UpdateProject(p.ID.String(), req)
	assert.True(t, models.IsStateError(err))

	req.TeamSize = 5
	req.Progress = 40
	updated, err := env.projects.UpdateProject(p.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.TeamSize)
	assert.Equal(t, models.ProjectInProgress, updated.Status, "status is kept when omitted")
}

func TestDeleteProjectCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	p := env.project(t, "Apollo", 2, models.ProjectInProgress, daysFromNow(3))
	a, err := env.assign(alice, p)
	require.NoError(t, err)
	_, err = env.alerts.CheckForNewAlerts()
	require.NoError(t, err)

	require.NoError(t, env.projects.DeleteProject(p.ID.String()))

	_, err = env.assignments.GetAssignmentByID(a.ID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
	alerts, err := env.alerts.GetActiveAlerts()
	require.NoError(t, err)
	assert.Empty(t, alerts)

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status)
}

func TestDeactivateProjects(t *testing.T) {
	env := newTestEnv(t)
	staffed := env.project(t, "Staffed", 2, models.ProjectInProgress, "")
	idle := env.project(t, "Idle", 2, models.ProjectStarting, "")
	_, err := env.assign(env.collaborator(t, "alice"), staffed)
	require.NoError(t, err)

	err = env.projects.DeactivateProjects([]string{idle.ID.String(), staffed.ID.String()})
	assert.True(t, models.IsStateError(err))

	require.NoError(t, env.projects.DeactivateProjects([]string{idle.ID.String()}))
	inactive, err := env.projects.GetInactiveProjects()
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, idle.ID, inactive[0].ID)

	require.NoError(t, env.projects.ReactivateProject(idle.ID.String()))
	active, err := env.projects.GetActiveProjects()
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSearchProjects(t *testing.T) {
	env := newTestEnv(t)
	env.project(t, "Apollo", 2, models.ProjectInProgress, daysFromNow(-1), "Go")
	env.project(t, "Artemis", 2, models.ProjectStarting, daysFromNow(20))
	env.project(t, "Gemini", 2, models.ProjectCompleted, daysFromNow(-10), "Go")

	page, err := env.projects.SearchProjects(models.ProjectSearchCriteria{Name: "a", SortBy: "name", SortDirection: "DESC", Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Artemis", page.Content[0].Name)

	page, err = env.projects.SearchProjects(models.ProjectSearchCriteria{RequiredSkills: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalElements)

	page, err = env.projects.SearchProjects(models.ProjectSearchCriteria{Critical: true})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalElements)
	assert.Equal(t, "Apollo", page.Content[0].Name)

	_, err = env.projects.SearchProjects(models.ProjectSearchCriteria{SortBy: "budget"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	critical, err := env.projects.GetCriticalProjects()
	require.NoError(t, err)
	assert.Len(t, critical, 1)
}
