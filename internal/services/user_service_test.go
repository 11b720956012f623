package services

import (
	"testing"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(&models.UserRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "s3cret-pass",
		Role:      role,
	})
	require.NoError(t, err)
	return u
}

func principalOf(u *models.User) models.Principal {
	return models.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)

	u := env.user(t, "jane@example.com", "")
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err := env.users.CreateUser(&models.UserRequest{FirstName: "J", LastName: "D", Email: "jane@example.com", Password: "x"})
	assert.True(t, models.IsStateError(err))

	_, err = env.users.CreateUser(&models.UserRequest{FirstName: "J", LastName: "D", Email: "new@example.com"})
	assert.ErrorIs(t, err, models.ErrUserPasswordRequired)
}

func TestUserAccessRules(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "admin@example.com", models.RoleAdmin)
	jane := env.user(t, "jane@example.com", models.RoleUser)
	john := env.user(t, "john@example.com", models.RoleUser)

	_, err := env.users.GetUserForPrincipal(principalOf(jane), john.ID.String())
	assert.ErrorIs(t, err, models.ErrForbidden)

	got, err := env.users.GetUserForPrincipal(principalOf(admin), john.ID.String())
	require.NoError(t, err)
	assert.Equal(t, john.Email, got.Email)

	updated, err := env.users.UpdateUser(principalOf(jane), jane.ID.String(), &models.UserRequest{Position: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", updated.Position)

	_, err = env.users.UpdateUser(principalOf(jane), jane.ID.String(), &models.UserRequest{Role: models.RoleAdmin})
	assert.ErrorIs(t, err, models.ErrForbidden, "users cannot promote themselves")

	cached, err := env.users.GetUserByID(jane.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Engineer", cached.Position)
}

func TestLastAdminIsProtected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "admin@example.com", models.RoleAdmin)
	manager := env.user(t, "manager@example.com", models.RoleManager)

	_, err := env.users.UpdateUserRole(admin.ID.String(), models.RoleUser)
	assert.True(t, models.IsStateError(err))

	err = env.users.DeleteUser(principalOf(admin), admin.ID.String())
	assert.True(t, models.IsStateError(err), "admins cannot delete themselves")

	promoted, err := env.users.UpdateUserRole(manager.ID.String(), models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, env.users.DeleteUser(principalOf(promoted), admin.ID.String()))

	_, err = env.users.GetUserByID(admin.ID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.users.EnsureAdmin("root@example.com", "changeme"))
	require.NoError(t, env.users.EnsureAdmin("root@example.com", "changeme"))

	users, err := env.users.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	jane := env.user(t, "jane@example.com", models.RoleManager)

	_, err := env.auth.Login(&models.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = env.auth.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	resp, err := env.auth.Login(&models.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), resp.ExpiresAt)

	principal, err := env.auth.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, principal.UserID)
	assert.Equal(t, models.RoleManager, principal.Role)

	me, err := env.auth.Me(principal)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.Email)

	refreshed, err := env.auth.RefreshToken(principal)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token, refreshed.Token)

	t.Run("expired", func(t *testing.T) {
		env.auth.Now = func() time.Time { return testNow.Add(2 * time.Hour) }
		defer func() { env.auth.Now = func() time.Time { return testNow } }()

		_, err := env.auth.Authenticate(resp.Token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(nil, "other-secret", time.Hour)
		other.Now = env.auth.Now
		_, err := other.Authenticate(resp.Token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.auth.Authenticate("not.a.token")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestPermissionsFor(t *testing.T) {
	admin := PermissionsFor("projects", models.RoleAdmin)
	assert.True(t, admin.Delete)
	assert.True(t, admin.ManageUsers)

	manager := PermissionsFor("projects", models.RoleManager)
	assert.True(t, manager.Write)
	assert.True(t, manager.ManageAssignments)
	assert.False(t, manager.Delete)

	user := PermissionsFor("projects", models.RoleUser)
	assert.True(t, user.Read)
	assert.False(t, user.Write)
}
