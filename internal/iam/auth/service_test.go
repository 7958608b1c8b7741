// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/sec"
)

// # In-Memory Fakes

type memoryUserRepository struct {
	users     map[string]*User
	roleLinks map[string]map[string]bool // userID -> roleID set
	roles     *memoryRoleRepository
	nextID    int
}

func newMemoryUserRepository(roles *memoryRoleRepository) *memoryUserRepository {
	return &memoryUserRepository{
		users:     map[string]*User{},
		roleLinks: map[string]map[string]bool{},
		roles:     roles,
	}
}

func (repository *memoryUserRepository) hydrate(user *User) *User {
	clone := *user
	clone.Roles = nil
	for roleID := range repository.roleLinks[user.ID] {
		if role, ok := repository.roles.byID[roleID]; ok && role.IsActive {
			clone.Roles = append(clone.Roles, *role)
		}
	}
	return &clone
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return repository.hydrate(user), nil
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return repository.hydrate(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) List(_ context.Context, filter ListFilter) ([]*User, error) {
	users := make([]*User, 0, len(repository.users))
	for _, user := range repository.users {
		users = append(users, repository.hydrate(user))
	}
	return users, nil
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	for _, existing := range repository.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	if user.ID == "" {
		repository.nextID++
		user.ID = "user-" + strconv.Itoa(repository.nextID)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *memoryUserRepository) Update(_ context.Context, user *User) error {
	stored, ok := repository.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.IsActive = user.IsActive
	stored.IsVerified = user.IsVerified
	stored.IsAdmin = user.IsAdmin
	stored.UpdatedAt = time.Now()
	return nil
}

func (repository *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	return nil
}

func (repository *memoryUserRepository) MarkVerified(_ context.Context, userID string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.IsVerified = true
	return nil
}

func (repository *memoryUserRepository) StampLastLogin(_ context.Context, userID string) error {
	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	now := time.Now()
	stored.LastLogin = &now
	return nil
}

func (repository *memoryUserRepository) Delete(_ context.Context, id string) error {
	delete(repository.users, id)
	delete(repository.roleLinks, id)
	return nil
}

func (repository *memoryUserRepository) AddRoleIfAbsent(_ context.Context, userID, roleID string) error {
	if repository.roleLinks[userID] == nil {
		repository.roleLinks[userID] = map[string]bool{}
	}
	repository.roleLinks[userID][roleID] = true
	return nil
}

func (repository *memoryUserRepository) RemoveRoles(_ context.Context, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		delete(repository.roleLinks[userID], roleID)
	}
	return nil
}

type memoryRoleRepository struct {
	byID map[string]*Role
}

func newMemoryRoleRepository() *memoryRoleRepository {
	repository := &memoryRoleRepository{byID: map[string]*Role{}}
	for _, seed := range DefaultRoles() {
		role := &Role{
			ID:          "role-" + seed.Name,
			Name:        seed.Name,
			Description: seed.Description,
			Permissions: seed.Permissions,
			IsActive:    true,
		}
		repository.byID[role.ID] = role
	}
	return repository
}

func (repository *memoryRoleRepository) FindByName(_ context.Context, name string) (*Role, error) {
	for _, role := range repository.byID {
		if role.Name == name && role.IsActive {
			return role, nil
		}
	}
	return nil, apperr.NotFound("Role")
}

func (repository *memoryRoleRepository) FindByIDs(_ context.Context, ids []string) ([]Role, error) {
	roles := make([]Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := repository.byID[id]; ok && role.IsActive {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (repository *memoryRoleRepository) ListActive(_ context.Context) ([]Role, error) {
	roles := make([]Role, 0, len(repository.byID))
	for _, role := range repository.byID {
		if role.IsActive {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (repository *memoryRoleRepository) EnsureDefaults(_ context.Context) error {
	return nil
}

type memoryVerificationTokenRepository struct {
	tokens map[string]string
}

func newMemoryVerificationTokenRepository() *memoryVerificationTokenRepository {
	return &memoryVerificationTokenRepository{tokens: map[string]string{}}
}

func (repository *memoryVerificationTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repository.tokens[token] = userID
	return nil
}

func (repository *memoryVerificationTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := repository.tokens[token]
	if !ok {
		return "", apperr.NotFound("Verification token")
	}
	return userID, nil
}

func (repository *memoryVerificationTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.tokens, token)
	return nil
}

// # Test Harness

type authFixture struct {
	service    *Service
	users      *memoryUserRepository
	roles      *memoryRoleRepository
	verifyRepo *memoryVerificationTokenRepository
	codec      *sec.TokenCodec
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	roles := newMemoryRoleRepository()
	users := newMemoryUserRepository(roles)
	verifyRepo := newMemoryVerificationTokenRepository()
	codec := sec.NewTokenCodec(sec.TokenConfig{
		Secret:     "test-secret",
		Issuer:     "janasewa.gov",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})

	return &authFixture{
		service:    NewService(users, roles, verifyRepo, codec),
		users:      users,
		roles:      roles,
		verifyRepo: verifyRepo,
		codec:      codec,
	}
}

func (fixture *authFixture) register(t *testing.T, name, email, password string) *User {
	t.Helper()
	user, err := fixture.service.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestService_Register(t *testing.T) {
	fixture := newAuthFixture(t)

	user := fixture.register(t, "Sita Sharma", "Sita@Example.COM", "Sungha123")

	assert.Equal(t, "sita@example.com", user.Email, "emails are normalized to lowercase")
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)
	assert.False(t, user.IsAdmin)
	assert.True(t, user.HasRole(RoleUser), "new accounts get the default citizen role")

	stored := fixture.users.users[user.ID]
	assert.NotEqual(t, "Sungha123", stored.PasswordHash)
	assert.NotEmpty(t, fixture.verifyRepo.tokens, "registration stores a verification token")
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	_, err := fixture.service.Register(context.Background(), RegisterInput{
		Name:     "Imposter",
		Email:    "SITA@example.com",
		Password: "Sungha123",
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Login

func TestService_Login(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	grant, err := fixture.service.Login(context.Background(), "Sita@Example.com", "Sungha123")
	require.NoError(t, err)

	assert.NotEmpty(t, grant.AccessToken)
	assert.NotEmpty(t, grant.RefreshToken)
	assert.Equal(t, TokenTypeBearer, grant.TokenType)
	assert.Equal(t, int64(1800), grant.ExpiresIn)
	assert.Equal(t, RoleUser, grant.Role)
	assert.Equal(t, RedirectUserDashboard, grant.RedirectTo)

	claims, err := fixture.codec.Decode(grant.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)

	assert.NotNil(t, fixture.users.users[user.ID].LastLogin)
}

func TestService_Login_AdminRedirect(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Admin", "admin@example.com", "Sungha123")
	require.NoError(t, fixture.users.AddRoleIfAbsent(context.Background(), user.ID, "role-"+RoleAdmin))

	grant, err := fixture.service.Login(context.Background(), "admin@example.com", "Sungha123")
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, grant.Role)
	assert.Equal(t, RedirectAdminDashboard, grant.RedirectTo)
}

func TestService_Login_WrongPassword(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	_, err := fixture.service.Login(context.Background(), "sita@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperr.As(err).Code)

	// Unknown email yields the identical error class.
	_, err = fixture.service.Login(context.Background(), "ghost@example.com", "Sungha123")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperr.As(err).Code)
}

func TestService_Login_InactiveAccount(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")
	fixture.users.users[user.ID].IsActive = false

	_, err := fixture.service.Login(context.Background(), "sita@example.com", "Sungha123")
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", apperr.As(err).Code)
}

// # Token Refresh

func TestService_Refresh(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	grant, err := fixture.service.Login(context.Background(), "sita@example.com", "Sungha123")
	require.NoError(t, err)

	refreshed, err := fixture.service.Refresh(context.Background(), grant.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken, "refresh never rotates the refresh token")

	_, err = fixture.codec.Decode(refreshed.AccessToken, sec.TokenKindAccess)
	assert.NoError(t, err)
}

func TestService_Refresh_RejectsAccessToken(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	grant, err := fixture.service.Login(context.Background(), "sita@example.com", "Sungha123")
	require.NoError(t, err)

	_, err = fixture.service.Refresh(context.Background(), grant.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperr.As(err).Code)
}

func TestService_Refresh_DeactivatedAccount(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	grant, err := fixture.service.Login(context.Background(), "sita@example.com", "Sungha123")
	require.NoError(t, err)

	fixture.users.users[user.ID].IsActive = false

	_, err = fixture.service.Refresh(context.Background(), grant.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", apperr.As(err).Code)
}

// # Password Change

func TestService_ChangePassword(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	err := fixture.service.ChangePassword(context.Background(), user.ID, "Sungha123", "Naya456Pass")
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), "sita@example.com", "Sungha123")
	require.Error(t, err, "old password stops working")

	_, err = fixture.service.Login(context.Background(), "sita@example.com", "Naya456Pass")
	assert.NoError(t, err)
}

func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	err := fixture.service.ChangePassword(context.Background(), user.ID, "wrong", "Naya456Pass")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestService_ChangePassword_SamePassword(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	err := fixture.service.ChangePassword(context.Background(), user.ID, "Sungha123", "Sungha123")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Email Verification

func TestService_VerifyEmail(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")

	var token string
	for stored := range fixture.verifyRepo.tokens {
		token = stored
	}
	require.NotEmpty(t, token)

	require.NoError(t, fixture.service.VerifyEmail(context.Background(), token))

	assert.True(t, fixture.users.users[user.ID].IsVerified)
	assert.Empty(t, fixture.verifyRepo.tokens, "used tokens are removed")

	err := fixture.service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Principal Resolution

func TestResolver_ResolveRequired(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")
	resolver := NewResolver(fixture.codec, fixture.users)

	token, err := fixture.codec.IssueAccessToken(user.ID)
	require.NoError(t, err)

	resolved, err := resolver.ResolveRequired(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.True(t, resolved.HasRole(RoleUser), "resolution hydrates roles")
}

func TestResolver_ResolveRequired_FreshRoleReads(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")
	resolver := NewResolver(fixture.codec, fixture.users)

	token, err := fixture.codec.IssueAccessToken(user.ID)
	require.NoError(t, err)

	// A role granted after token issuance is visible on the next resolve,
	// without re-login.
	require.NoError(t, fixture.users.AddRoleIfAbsent(context.Background(), user.ID, "role-"+RoleAdmin))

	resolved, err := resolver.ResolveRequired(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, resolved.CheckIsAdmin())
}

func TestResolver_ResolveRequired_Failures(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")
	resolver := NewResolver(fixture.codec, fixture.users)

	// Refresh tokens are not accepted for request authentication.
	refreshToken, err := fixture.codec.IssueRefreshToken(user.ID)
	require.NoError(t, err)
	_, err = resolver.ResolveRequired(context.Background(), refreshToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperr.As(err).Code)

	// A token for a deleted account is invalid.
	orphanToken, err := fixture.codec.IssueAccessToken("ghost")
	require.NoError(t, err)
	_, err = resolver.ResolveRequired(context.Background(), orphanToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperr.As(err).Code)

	// A deactivated account is refused with its own class.
	fixture.users.users[user.ID].IsActive = false
	token, err := fixture.codec.IssueAccessToken(user.ID)
	require.NoError(t, err)
	_, err = resolver.ResolveRequired(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", apperr.As(err).Code)
}

func TestResolver_ResolveOptional(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.register(t, "Sita Sharma", "sita@example.com", "Sungha123")
	resolver := NewResolver(fixture.codec, fixture.users)

	token, err := fixture.codec.IssueAccessToken(user.ID)
	require.NoError(t, err)

	assert.NotNil(t, resolver.ResolveOptional(context.Background(), token))
	assert.Nil(t, resolver.ResolveOptional(context.Background(), ""))
	assert.Nil(t, resolver.ResolveOptional(context.Background(), "garbage"))
}
