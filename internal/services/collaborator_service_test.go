package services

import (
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCollaborator(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.collaborators.CreateCollaborator(&models.CollaboratorRequest{
		Name:   "  <i>Alice</i> ",
		Email:  "alice@example.com",
		Skills: []string{"Go", "go", " SQL "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, models.CollaboratorAvailable, c.Status)
	assert.True(t, c.Active)
	assert.ElementsMatch(t, []string{"Go", "SQL"}, models.SkillNames(c.Skills))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.collaborators.CreateCollaborator(&models.CollaboratorRequest{Name: "Other", Email: "alice@example.com"})
		require.Error(t, err)
		assert.True(t, models.IsStateError(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := env.collaborators.CreateCollaborator(&models.CollaboratorRequest{Name: "Other", Email: "not-an-email"})
		assert.ErrorIs(t, err, models.ErrCollaboratorEmailInvalid)
	})

	t.Run("skills are shared", func(t *testing.T) {
		skills, err := env.skills.GetAllSkills()
		require.NoError(t, err)
		assert.Len(t, skills, 2)
	})
}

func TestUpdateCollaboratorStatusWhileAssigned(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 2, models.ProjectInProgress, "")
	_, err := env.assign(alice, apollo)
	require.NoError(t, err)

	req := &models.CollaboratorRequest{Name: "alice", Email: "alice@example.com", Status: models.CollaboratorOnLeave}
	_, err = env.collaborators.UpdateCollaborator(alice.ID.String(), req)
	require.Error(t, err)
	assert.True(t, models.IsStateError(err))

	req.ReleaseAssignments = true
	updated, err := env.collaborators.UpdateCollaborator(alice.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, models.CollaboratorOnLeave, updated.Status)

	assignments, err := env.assignments.GetAssignmentsByCollaborator(alice.ID.String())
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestDeactivateCollaborators(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	bob := env.collaborator(t, "bob")
	apollo := env.project(t, "Apollo", 2, models.ProjectInProgress, "")
	_, err := env.assign(bob, apollo)
	require.NoError(t, err)

	err = env.collaborators.DeactivateCollaborators([]string{alice.ID.String(), bob.ID.String()})
	require.Error(t, err)
	assert.True(t, models.IsStateError(err))

	reloaded, err := env.collaborators.GetCollaboratorByID(alice.ID.String())
	require.NoError(t, err)
	assert.True(t, reloaded.Active, "batch is all or nothing")

	require.NoError(t, env.collaborators.DeactivateCollaborator(alice.ID.String()))
	inactive, err := env.collaborators.GetInactiveCollaborators()
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, alice.ID, inactive[0].ID)

	require.NoError(t, env.collaborators.ReactivateCollaborators([]string{alice.ID.String()}))
	active, err := env.collaborators.GetActiveCollaborators()
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestDeleteCollaborator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	apollo := env.project(t, "Apollo", 2, models.ProjectInProgress, "")
	_, err := env.assign(alice, apollo)
	require.NoError(t, err)

	err = env.collaborators.DeleteCollaborator(alice.ID.String())
	assert.True(t, models.IsStateError(err))

	_, err = env.assignments.RemoveCollaboratorFromAllProjects(alice.ID.String())
	require.NoError(t, err)
	require.NoError(t, env.collaborators.DeleteCollaborator(alice.ID.String()))

	_, err = env.collaborators.GetCollaboratorByID(alice.ID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAvailableCollaborators(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice")
	bob := env.collaborator(t, "bob")
	carol := env.collaborator(t, "carol")
	_, err := env.collaborators.UpdateCollaborator(carol.ID.String(), &models.CollaboratorRequest{
		Name: "carol", Email: "carol@example.com", Status: models.CollaboratorOnLeave,
	})
	require.NoError(t, err)

	june := env.project(t, "June", 2, models.ProjectInProgress, "2024-06-30")
	_, err = env.assign(bob, june)
	require.NoError(t, err)

	free, err := env.collaborators.GetAvailableCollaborators(testNow)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, alice.ID, free[0].ID)

	july, err := models.ParseDate("2024-07-01")
	require.NoError(t, err)
	august, err := models.ParseDate("2024-08-01")
	require.NoError(t, err)
	free, err = env.collaborators.GetAvailableCollaboratorsForPeriod(july, august)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, collaboratorNames(free))

	_, err = env.collaborators.GetAvailableCollaboratorsForPeriod(august, july)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSearchCollaboratorsAndSkills(t *testing.T) {
	env := newTestEnv(t)
	env.collaborator(t, "alice", "Go")
	env.collaborator(t, "bob", "Java")

	found, err := env.collaborators.SearchCollaborators("ali")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, collaboratorNames(found))

	bySkill, err := env.collaborators.GetCollaboratorsBySkill("java")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, collaboratorNames(bySkill))
}

func collaboratorNames(collaborators []*models.Collaborator) []string {
	names := make([]string, 0, len(collaborators))
	for _, c := range collaborators {
		names = append(names, c.Name)
	}
	return names
}
