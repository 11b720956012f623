package services

import (
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollaboratorStatistics(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice", "Go", "SQL")
	env.collaborator(t, "bob", "Go")
	env.collaborator(t, "carol", "Go", "Rust")
	dave := env.collaborator(t, "dave", "Rust")
	require.NoError(t, env.collaborators.DeactivateCollaborator(dave.ID.String()))

	p := env.project(t, "Apollo", 2, models.ProjectInProgress, "")
	_, err := env.assign(alice, p)
	require.NoError(t, err)

	stats, err := env.statistics.CollaboratorStatistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Available)
	assert.Equal(t, 1, stats.OnMission)
	assert.Equal(t, 0, stats.OnLeave)
	assert.Equal(t, map[string]int{"Go": 3, "SQL": 1, "Rust": 1}, stats.SkillCounts)
	require.NotEmpty(t, stats.TopSkills)
	assert.Equal(t, models.SkillCount{Name: "Go", Count: 3}, stats.TopSkills[0])
	assert.Equal(t, []models.SkillCount{{Name: "Rust", Count: 1}, {Name: "SQL", Count: 1}}, stats.LeastUsedSkills)

	top, err := env.statistics.TopSkills(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	status, err := env.statistics.CollaboratorStatusStatistics()
	require.NoError(t, err)
	assert.Equal(t, models.StatusStatistics{Total: 4, Active: 3, Inactive: 1}, *status)
}

func TestProjectStatisticsAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	late := env.project(t, "Late", 2, models.ProjectInProgress, daysFromNow(-3), "Go")
	env.project(t, "Done", 2, models.ProjectCompleted, daysFromNow(-3), "Go", "SQL")
	idle := env.project(t, "Idle", 2, models.ProjectStarting, "")
	require.NoError(t, env.projects.DeactivateProject(idle.ID.String()))
	_, err := env.assign(env.collaborator(t, "alice"), late)
	require.NoError(t, err)

	stats, err := env.statistics.ProjectStatistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Critical)
	assert.Equal(t, []models.SkillCount{{Name: "SQL", Count: 1}, {Name: "Go", Count: 2}}, stats.LeastUsedSkills)

	dashboard, err := env.statistics.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.ActiveProjects)
	assert.Equal(t, 1, dashboard.ActiveCollaborators)
	assert.Equal(t, 1, dashboard.RecentAssignments)
	assert.Equal(t, 3, dashboard.RecentlyUpdatedProjects)
}

func TestSkillHelpers(t *testing.T) {
	counts := []models.SkillCount{{Name: "b", Count: 1}, {Name: "a", Count: 5}, {Name: "c", Count: 1}, {Name: "d", Count: 3}}

	assert.Equal(t, []models.SkillCount{{Name: "a", Count: 5}, {Name: "d", Count: 3}}, topSkills(counts, 2))
	assert.Equal(t, []models.SkillCount{{Name: "b", Count: 1}, {Name: "c", Count: 1}}, leastUsedSkills(counts, 3, 0))
	assert.Equal(t, "b", counts[0].Name, "input is not reordered by topSkills")
}
