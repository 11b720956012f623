package services

import (
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignmentMarksCollaboratorOnMission(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, daysFromNow(60))

	a, err := env.assign(alice, apollo)
	require.NoError(t, err)
	assert.Equal(t, "alice", a.CollaboratorName)
	assert.Equal(t, "Apollo", a.ProjectName)
	assert.Equal(t, testNow, a.CreatedAt)

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorOnMission, reloaded.Status)
}

func TestDeleteAssignmentReleasesCollaborator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, daysFromNow(60))

	a, err := env.assign(alice, apollo)
	require.NoError(t, err)
	require.NoError(t, env.assignments.DeleteAssignment(a.ID.String()))

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status)

	_, err = env.assignments.GetAssignmentByID(a.ID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateAssignmentPreconditions(t *testing.T) {
	t.Run("already assigned to a starting project", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.collaborator(t, "alice")
		first := env.project(t, "Apollo", 3, models.ProjectStarting, daysFromNow(60))
		second := env.project(t, "Gemini", 3, models.ProjectStarting, daysFromNow(60))

		_, err := env.assign(alice, first)
		require.NoError(t, err)

		_, err = env.assign(alice, second)
		require.Error(t, err)
		assert.True(t, models.IsStateError(err))
		assert.Contains(t, err.Error(), "already assigned")
	})

	t.Run("collaborator on leave", func(t *testing.T) {
		env := newTestEnv(t)
		bob := env.collaborator(t, "bob")
		_, err := env.collaborators.UpdateCollaborator(bob.ID.String(), &models.CollaboratorRequest{
			Name: "bob", Email: "bob@example.com", Status: models.CollaboratorOnLeave,
		})
		require.NoError(t, err)
		apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, daysFromNow(60))

		_, err = env.assign(bob, apollo)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "on leave")
	})

	t.Run("completed project", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.collaborator(t, "alice")
		done := env.project(t, "Done", 3, models.ProjectCompleted, daysFromNow(-5))

		_, err := env.assign(alice, done)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "completed project")
	})

	t.Run("cancelled project", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.collaborator(t, "alice")
		cancelled := env.project(t, "Dropped", 3, models.ProjectCancelled, "")

		_, err := env.assign(alice, cancelled)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not in an assignable state")
	})

	t.Run("unknown collaborator", func(t *testing.T) {
		env := newTestEnv(t)
		apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, "")

		_, err := env.assignments.CreateAssignment(&models.AssignmentRequest{
			CollaboratorID: uuid.NewString(),
			ProjectID:      apollo.ID.String(),
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.assignments.CreateAssignment(&models.AssignmentRequest{CollaboratorID: "nope", ProjectID: uuid.NewString()})
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestCreateAssignmentRespectsTeamSize(t *testing.T) {
	env := newTestEnv(t)
	apollo := env.project(t, "Apollo", 2, models.ProjectInProgress, daysFromNow(60))

	_, err := env.assign(env.collaborator(t, "alice"), apollo)
	require.NoError(t, err)
	_, err = env.assign(env.collaborator(t, "bob"), apollo)
	require.NoError(t, err)

	carol := env.collaborator(t, "carol")
	_, err = env.assign(carol, apollo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team is full (maximum size: 2)")

	reloaded, err := env.collaborators.GetCollaboratorByID(carol.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status, "failed assignment leaves no trace")

	count, err := env.assignments.GetAssignmentsByProject(apollo.ID.String())
	require.NoError(t, err)
	assert.Len(t, count, 2)
}

func TestUpdateAssignmentChangesRoleOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, "")
	a, err := env.assign(alice, apollo)
	require.NoError(t, err)

	updated, err := env.assignments.UpdateAssignment(a.ID.String(), &models.AssignmentUpdateRequest{Role: "Lead", Notes: "<b>owns</b> the API"})
	require.NoError(t, err)
	assert.Equal(t, "Lead", updated.Role)
	assert.Equal(t, "owns the API", updated.Notes)
	assert.Equal(t, alice.ID, updated.CollaboratorID)
}

func TestRemoveCollaboratorsFromProject(t *testing.T) {
	env := newTestEnv(t)
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, "")
	alice := env.collaborator(t, "alice")
	bob := env.collaborator(t, "bob")
	_, err := env.assign(alice, apollo)
	require.NoError(t, err)
	_, err = env.assign(bob, apollo)
	require.NoError(t, err)

	removed, err := env.assignments.RemoveCollaboratorsFromProject(apollo.ID.String(), []string{alice.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	remaining, err := env.assignments.GetAssignmentsByProject(apollo.ID.String())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].CollaboratorID)

	removed, err = env.assignments.RemoveAllCollaboratorsFromProject(apollo.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	reloaded, err := env.collaborators.GetCollaboratorByID(bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status)
}

func TestRemoveCollaboratorFromAllProjects(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, "")
	_, err := env.assign(alice, apollo)
	require.NoError(t, err)

	removed, err := env.assignments.RemoveCollaboratorFromAllProjects(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status)
}

func TestRemoveCollaboratorsFromEndingProjects(t *testing.T) {
	env := newTestEnv(t)
	soon := env.project(t, "Soon", 3, models.ProjectInProgress, daysFromNow(10))
	later := env.project(t, "Later", 3, models.ProjectInProgress, daysFromNow(45))
	open := env.project(t, "Open", 3, models.ProjectInProgress, "")

	alice := env.collaborator(t, "alice")
	bob := env.collaborator(t, "bob")
	carol := env.collaborator(t, "carol")
	for _, pair := range []struct {
		c *models.Collaborator
		p *models.Project
	}{{alice, soon}, {bob, later}, {carol, open}} {
		_, err := env.assign(pair.c, pair.p)
		require.NoError(t, err)
	}

	stats, err := env.assignments.GetRemovalStatistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ActiveAssignments)
	assert.Equal(t, 1, stats.EndingSoon)
	assert.Equal(t, 1, stats.CollaboratorsToBeReleased)

	removed, err := env.assignments.RemoveCollaboratorsFromEndingProjects()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorAvailable, reloaded.Status)

	all, err := env.assignments.GetAllAssignments()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCanRemoveCollaborator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, "")

	ok, err := env.assignments.CanRemoveCollaborator(alice.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.assign(alice, apollo)
	require.NoError(t, err)
	ok, err = env.assignments.CanRemoveCollaborator(alice.ID.String())
	require.NoError(t, err)
	assert.False(t, ok)
}

func (e *testEnv) forceProjectStatus(t *testing.T, p *models.Project, status models.ProjectStatus) {
	t.Helper()
	_, err := e.db.Exec(`UPDATE projects SET status = ? WHERE id = ?`, status, p.ID.String())
	require.NoError(t, err)
}

func (e *testEnv) collaboratorStatus(t *testing.T, c *models.Collaborator) models.CollaboratorStatus {
	t.Helper()
	reloaded, err := e.collaborators.GetCollaboratorByID(c.ID.String())
	require.NoError(t, err)
	return reloaded.Status
}

func TestTerminalProjectRules(t *testing.T) {
	// setup assigns alice to an in-progress project ending in ten days and
	// then moves the project to status
	setup := func(t *testing.T, status models.ProjectStatus) (*testEnv, *models.Collaborator, *models.Project, *models.Assignment) {
		env := newTestEnv(t)
		alice := env.collaborator(t, "alice")
		apollo := env.project(t, "Apollo", 3, models.ProjectInProgress, daysFromNow(10))
		a, err := env.assign(alice, apollo)
		require.NoError(t, err)
		env.forceProjectStatus(t, apollo, status)
		return env, alice, apollo, a
	}

	for _, status := range []models.ProjectStatus{models.ProjectCompleted, models.ProjectCancelled} {
		t.Run("delete assignment rejected on "+string(status), func(t *testing.T) {
			env, alice, _, a := setup(t, status)

			err := env.assignments.DeleteAssignment(a.ID.String())
			require.Error(t, err)
			assert.True(t, models.IsStateError(err))
			assert.Contains(t, err.Error(), "cannot remove an assignment")

			_, err = env.assignments.GetAssignmentByID(a.ID.String())
			assert.NoError(t, err)
			assert.Equal(t, models.CollaboratorOnMission, env.collaboratorStatus(t, alice))
		})

		t.Run("bulk removals rejected on "+string(status), func(t *testing.T) {
			env, alice, apollo, _ := setup(t, status)

			removed, err := env.assignments.RemoveCollaboratorsFromProject(apollo.ID.String(), []string{alice.ID.String()})
			require.Error(t, err)
			assert.Zero(t, removed)
			assert.Contains(t, err.Error(), "cannot remove collaborators")

			removed, err = env.assignments.RemoveAllCollaboratorsFromProject(apollo.ID.String())
			require.Error(t, err)
			assert.Zero(t, removed)

			left, err := env.assignments.GetAssignmentsByProject(apollo.ID.String())
			require.NoError(t, err)
			assert.Len(t, left, 1)
		})

		t.Run("remove from all projects keeps status on "+string(status), func(t *testing.T) {
			env, alice, _, _ := setup(t, status)

			removed, err := env.assignments.RemoveCollaboratorFromAllProjects(alice.ID.String())
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			assert.Equal(t, models.CollaboratorOnMission, env.collaboratorStatus(t, alice))
		})

		t.Run("ending sweep keeps status on "+string(status), func(t *testing.T) {
			env, alice, apollo, _ := setup(t, status)

			removed, err := env.assignments.RemoveCollaboratorsFromEndingProjects()
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			assert.Equal(t, models.CollaboratorOnMission, env.collaboratorStatus(t, alice))

			left, err := env.assignments.GetAssignmentsByProject(apollo.ID.String())
			require.NoError(t, err)
			assert.Empty(t, left)
		})

		t.Run("delete project keeps status on "+string(status), func(t *testing.T) {
			env, alice, apollo, _ := setup(t, status)

			require.NoError(t, env.projects.DeleteProject(apollo.ID.String()))
			assert.Equal(t, models.CollaboratorOnMission, env.collaboratorStatus(t, alice))
		})
	}

	t.Run("update assignment rejected on completed project", func(t *testing.T) {
		env, _, _, a := setup(t, models.ProjectCompleted)

		_, err := env.assignments.UpdateAssignment(a.ID.String(), &models.AssignmentUpdateRequest{Role: "Lead"})
		require.Error(t, err)
		assert.True(t, models.IsStateError(err))
		assert.Contains(t, err.Error(), "completed project")
	})

	t.Run("update assignment rejected while collaborator on leave", func(t *testing.T) {
		env, alice, _, a := setup(t, models.ProjectInProgress)
		_, err := env.db.Exec(`UPDATE collaborators SET status = ? WHERE id = ?`, models.CollaboratorOnLeave, alice.ID.String())
		require.NoError(t, err)

		_, err = env.assignments.UpdateAssignment(a.ID.String(), &models.AssignmentUpdateRequest{Role: "Lead"})
		require.Error(t, err)
		assert.True(t, models.IsStateError(err))
		assert.Contains(t, err.Error(), "on leave")

		reloaded, err := env.assignments.GetAssignmentByID(a.ID.String())
		require.NoError(t, err)
		assert.NotEqual(t, "Lead", reloaded.Role)
	})
}
