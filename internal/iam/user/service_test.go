// Copyright (c) 2026 JanaSewa. All rights reserved.

package user

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/apperr"
)

// # In-Memory Fakes

type fakeRoleRepository struct {
	byID map[string]*auth.Role
}

func newFakeRoleRepository() *fakeRoleRepository {
	repository := &fakeRoleRepository{byID: map[string]*auth.Role{}}
	for _, seed := range auth.DefaultRoles() {
		role := &auth.Role{
			ID:          "role-" + seed.Name,
			Name:        seed.Name,
			Permissions: seed.Permissions,
			IsActive:    true,
		}
		repository.byID[role.ID] = role
	}
	return repository
}

func (repository *fakeRoleRepository) FindByName(_ context.Context, name string) (*auth.Role, error) {
	for _, role := range repository.byID {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, apperr.NotFound("Role")
}

func (repository *fakeRoleRepository) FindByIDs(_ context.Context, ids []string) ([]auth.Role, error) {
	roles := make([]auth.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := repository.byID[id]; ok {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (repository *fakeRoleRepository) ListActive(_ context.Context) ([]auth.Role, error) {
	roles := make([]auth.Role, 0, len(repository.byID))
	for _, role := range repository.byID {
		roles = append(roles, *role)
	}
	return roles, nil
}

func (repository *fakeRoleRepository) EnsureDefaults(_ context.Context) error { return nil }

type fakeUserRepository struct {
	users     map[string]*auth.User
	roleLinks map[string]map[string]bool
	roles     *fakeRoleRepository
	nextID    int
}

func newFakeUserRepository(roles *fakeRoleRepository) *fakeUserRepository {
	return &fakeUserRepository{
		users:     map[string]*auth.User{},
		roleLinks: map[string]map[string]bool{},
		roles:     roles,
	}
}

func (repository *fakeUserRepository) hydrate(user *auth.User) *auth.User {
	clone := *user
	clone.Roles = nil
	for roleID := range repository.roleLinks[user.ID] {
		if role, ok := repository.roles.byID[roleID]; ok {
			clone.Roles = append(clone.Roles, *role)
		}
	}
	return &clone
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return repository.hydrate(user), nil
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return repository.hydrate(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) List(_ context.Context, filter auth.ListFilter) ([]*auth.User, error) {
	users := make([]*auth.User, 0, len(repository.users))
	for _, user := range repository.users {
		users = append(users, repository.hydrate(user))
	}
	return users, nil
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repository.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	if user.ID == "" {
		repository.nextID++
		user.ID = "user-" + strconv.Itoa(repository.nextID)
	}
	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	stored, ok := repository.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.IsActive = user.IsActive
	stored.IsVerified = user.IsVerified
	stored.IsAdmin = user.IsAdmin
	return nil
}

func (repository *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	return nil
}

func (repository *fakeUserRepository) MarkVerified(_ context.Context, userID string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.IsVerified = true
	return nil
}

func (repository *fakeUserRepository) StampLastLogin(_ context.Context, userID string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	now := time.Now()
	stored.LastLogin = &now
	return nil
}

func (repository *fakeUserRepository) Delete(_ context.Context, id string) error {
	delete(repository.users, id)
	delete(repository.roleLinks, id)
	return nil
}

func (repository *fakeUserRepository) AddRoleIfAbsent(_ context.Context, userID, roleID string) error {
	if repository.roleLinks[userID] == nil {
		repository.roleLinks[userID] = map[string]bool{}
	}
	repository.roleLinks[userID][roleID] = true
	return nil
}

func (repository *fakeUserRepository) RemoveRoles(_ context.Context, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		delete(repository.roleLinks[userID], roleID)
	}
	return nil
}

// # Test Harness

type consoleFixture struct {
	service *Service
	users   *fakeUserRepository
	roles   *fakeRoleRepository
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	roles := newFakeRoleRepository()
	users := newFakeUserRepository(roles)
	return &consoleFixture{
		service: NewService(users, roles),
		users:   users,
		roles:   roles,
	}
}

func (fixture *consoleFixture) seedUser(t *testing.T, id, email string, roleNames ...string) *auth.User {
	t.Helper()
	account := &auth.User{ID: id, Name: id, Email: email, IsActive: true, IsVerified: true}
	require.NoError(t, fixture.users.Create(context.Background(), account))
	for _, name := range roleNames {
		require.NoError(t, fixture.users.AddRoleIfAbsent(context.Background(), id, "role-"+name))
	}
	hydrated, err := fixture.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return hydrated
}

// # Profile

func TestService_UpdateProfile_EmailChangeResetsVerification(t *testing.T) {
	fixture := newConsoleFixture(t)
	fixture.seedUser(t, "u1", "old@example.com", auth.RoleUser)

	updated, err := fixture.service.UpdateProfile(context.Background(), "u1", "", "New@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.IsVerified, "a changed email must be re-verified")
}

func TestService_UpdateProfile_SameEmailKeepsVerification(t *testing.T) {
	fixture := newConsoleFixture(t)
	fixture.seedUser(t, "u1", "sita@example.com", auth.RoleUser)

	updated, err := fixture.service.UpdateProfile(context.Background(), "u1", "New Name", "SITA@example.com")
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.True(t, updated.IsVerified)
}

// # Account Creation

func TestService_Create_DefaultRole(t *testing.T) {
	fixture := newConsoleFixture(t)
	actor := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)

	created, err := fixture.service.Create(context.Background(), actor, CreateInput{
		Name:     "New Citizen",
		Email:    "citizen@example.com",
		Password: "Sungha123",
		IsActive: true,
	})
	require.NoError(t, err)

	assert.True(t, created.IsVerified, "admin-created accounts are pre-verified")
	assert.True(t, created.HasRole(auth.RoleUser))
	assert.False(t, created.IsAdmin)
}

func TestService_Create_SuperadminRoleGate(t *testing.T) {
	fixture := newConsoleFixture(t)
	admin := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)

	_, err := fixture.service.Create(context.Background(), admin, CreateInput{
		Name:     "Escalation",
		Email:    "esc@example.com",
		Password: "Sungha123",
		IsActive: true,
		RoleIDs:  []string{"role-" + auth.RoleSuperadmin},
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestService_Create_AdminRoleSyncsFlag(t *testing.T) {
	fixture := newConsoleFixture(t)
	superadmin := fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)

	created, err := fixture.service.Create(context.Background(), superadmin, CreateInput{
		Name:     "New Admin",
		Email:    "newadmin@example.com",
		Password: "Sungha123",
		IsActive: true,
		RoleIDs:  []string{"role-" + auth.RoleAdmin},
	})
	require.NoError(t, err)

	assert.True(t, created.IsAdmin, "is_admin is derived from the role set")
}

// # Deletion

func TestService_Delete_SelfDeletionConflict(t *testing.T) {
	fixture := newConsoleFixture(t)
	superadmin := fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)

	// Self-deletion is a Conflict even for a superadmin: the gate runs
	// before any role check.
	err := fixture.service.Delete(context.Background(), superadmin, superadmin.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestService_Delete_SuperadminTargetGate(t *testing.T) {
	fixture := newConsoleFixture(t)
	admin := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)
	fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)

	err := fixture.service.Delete(context.Background(), admin, "root")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestService_Delete(t *testing.T) {
	fixture := newConsoleFixture(t)
	admin := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)
	fixture.seedUser(t, "u1", "citizen@example.com", auth.RoleUser)

	require.NoError(t, fixture.service.Delete(context.Background(), admin, "u1"))

	_, err := fixture.users.FindByID(context.Background(), "u1")
	assert.Error(t, err)
}

// # Role Assignment

func TestService_AssignRoles_SyncsAdminFlag(t *testing.T) {
	fixture := newConsoleFixture(t)
	superadmin := fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)
	fixture.seedUser(t, "u1", "citizen@example.com", auth.RoleUser)

	updated, err := fixture.service.AssignRoles(context.Background(), superadmin, "u1", []string{"role-" + auth.RoleAdmin})
	require.NoError(t, err)

	assert.True(t, updated.HasRole(auth.RoleAdmin))
	assert.True(t, updated.IsAdmin)
}

func TestService_AssignRoles_SuperadminGate(t *testing.T) {
	fixture := newConsoleFixture(t)
	admin := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)
	fixture.seedUser(t, "u1", "citizen@example.com", auth.RoleUser)

	_, err := fixture.service.AssignRoles(context.Background(), admin, "u1", []string{"role-" + auth.RoleSuperadmin})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestService_RemoveRoles_SyncsAdminFlag(t *testing.T) {
	fixture := newConsoleFixture(t)
	superadmin := fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)
	target := fixture.seedUser(t, "u1", "citizen@example.com", auth.RoleUser, auth.RoleAdmin)
	require.NoError(t, fixture.users.Update(context.Background(), withAdminFlag(target)))

	updated, err := fixture.service.RemoveRoles(context.Background(), superadmin, "u1", []string{"role-" + auth.RoleAdmin})
	require.NoError(t, err)

	assert.False(t, updated.HasRole(auth.RoleAdmin))
	assert.False(t, updated.IsAdmin, "flag drops when the last admin role is removed")
}

func TestService_RemoveRoles_OwnAdministrativeRole(t *testing.T) {
	fixture := newConsoleFixture(t)
	superadmin := fixture.seedUser(t, "root", "root@example.com", auth.RoleSuperadmin)

	_, err := fixture.service.RemoveRoles(context.Background(), superadmin, superadmin.ID, []string{"role-" + auth.RoleSuperadmin})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestService_RemoveRoles_SuperadminGate(t *testing.T) {
	fixture := newConsoleFixture(t)
	admin := fixture.seedUser(t, "admin", "admin@example.com", auth.RoleAdmin)
	fixture.seedUser(t, "root2", "root2@example.com", auth.RoleSuperadmin)

	_, err := fixture.service.RemoveRoles(context.Background(), admin, "root2", []string{"role-" + auth.RoleSuperadmin})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func withAdminFlag(user *auth.User) *auth.User {
	clone := *user
	clone.IsAdmin = true
	return &clone
}
