package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/config"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `
skills:
  - name: Go
    category: Backend
  - name: React
    category: Frontend
collaborators:
  - name: Ada Lovelace
    email: ada@example.com
    role: Developer
    experience_years: 8
    skills: [Go]
  - name: Grace Hopper
    email: grace@example.com
    role: Developer
    status: ON_LEAVE
    skills: [Go, React]
projects:
  - name: Billing
    client: Acme
    project_manager: Jane
    start_date: "2024-01-01"
    team_size: 3
    status: IN_PROGRESS
    required_skills: [Go]
assignments:
  - collaborator: ada@example.com
    project: Billing
    role: Backend
`

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			AdminEmail:         "admin@example.com",
			AdminPassword:      "admin-password",
		},
		Cache: config.CacheConfig{Size: 16, TTLSeconds: 60},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "staffhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, testConfig())
}

func TestSeedLoadsFixturesThroughServices(t *testing.T) {
	a := newTestApp(t)
	fixtures, err := ParseFixtures([]byte(fixturesYAML))
	require.NoError(t, err)

	result, err := a.Seed(fixtures)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Skills: 2, Collaborators: 2, Projects: 1, Assignments: 1}, result)

	onMission, err := a.Services.Collaborators.GetCollaboratorsByStatus(models.CollaboratorOnMission)
	require.NoError(t, err)
	require.Len(t, onMission, 1)
	assert.Equal(t, "ada@example.com", onMission[0].Email)
}

func TestSeedRejectsUnknownReferences(t *testing.T) {
	a := newTestApp(t)
	fixtures, err := ParseFixtures([]byte(`
assignments:
  - collaborator: nobody@example.com
    project: Billing
`))
	require.NoError(t, err)

	_, err = a.Seed(fixtures)
	assert.ErrorContains(t, err, "unknown collaborator")
}

func TestParseFixturesRejectsInvalidYAML(t *testing.T) {
	_, err := ParseFixtures([]byte("skills: [unterminated"))
	assert.Error(t, err)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Bootstrap())
	require.NoError(t, a.Bootstrap())

	users, err := a.Services.Users.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
}

func TestRouterServesHealth(t *testing.T) {
	a := newTestApp(t)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeedMatchesUncategorizedSkillsByName(t *testing.T) {
	a := newTestApp(t)
	fixtures, err := ParseFixtures([]byte(`
skills:
  - name: Go
    category: Backend
  - name: go
  - name: Docker
`))
	require.NoError(t, err)

	result, err := a.Seed(fixtures)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Skills)

	skills, err := a.Services.Skills.GetAllSkills()
	require.NoError(t, err)
	categories := make(map[string]string)
	for _, s := range skills {
		categories[s.Name] = s.Category
	}
	assert.Equal(t, map[string]string{"Go": "Backend", "Docker": models.DefaultSkillCategory}, categories)
}
