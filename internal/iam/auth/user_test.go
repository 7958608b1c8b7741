// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleNamed(name string) Role {
	return Role{ID: "role-" + name, Name: name, IsActive: true}
}

func TestUser_HasAnyRole(t *testing.T) {
	user := &User{Roles: []Role{roleNamed(RoleUser), roleNamed(RoleModerator)}}

	assert.True(t, user.HasRole(RoleModerator))
	assert.True(t, user.HasAnyRole(RoleAdmin, RoleModerator))
	assert.False(t, user.HasAnyRole(RoleAdmin, RoleSuperadmin))
	assert.False(t, (&User{}).HasAnyRole(RoleUser))
}

func TestUser_CheckIsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"plain citizen", User{Roles: []Role{roleNamed(RoleUser)}}, false},
		{"flag only, zero roles", User{IsAdmin: true}, true},
		{"admin role only", User{Roles: []Role{roleNamed(RoleAdmin)}}, true},
		{"superadmin role only", User{Roles: []Role{roleNamed(RoleSuperadmin)}}, true},
		{"moderator is not admin", User{Roles: []Role{roleNamed(RoleModerator)}}, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.user.CheckIsAdmin())
		})
	}
}

func TestUser_IsSuperadmin_FlagInsufficient(t *testing.T) {
	// The is_admin flag grants admin, never superadmin.
	flagged := &User{IsAdmin: true}
	assert.True(t, flagged.CheckIsAdmin())
	assert.False(t, flagged.IsSuperadmin())

	holder := &User{Roles: []Role{roleNamed(RoleSuperadmin)}}
	assert.True(t, holder.IsSuperadmin())
}

func TestUser_HasPermission(t *testing.T) {
	user := &User{Roles: []Role{
		{Name: RoleUser, Permissions: `{"can_read": true, "can_write": false}`},
	}}

	assert.True(t, user.HasPermission("can_read"))
	assert.False(t, user.HasPermission("can_write"))
	assert.False(t, user.HasPermission("can_delete"))
}

func TestUser_HasPermission_Wildcard(t *testing.T) {
	user := &User{Roles: []Role{
		{Name: RoleSuperadmin, Permissions: `{"all": true}`},
	}}

	assert.True(t, user.HasPermission("can_read"))
	assert.True(t, user.HasPermission("anything_at_all"))
}

func TestUser_HasPermission_MalformedJSON(t *testing.T) {
	// A corrupt permission map must fail closed.
	user := &User{Roles: []Role{
		{Name: RoleUser, Permissions: `{"can_read": tru`},
	}}

	assert.False(t, user.HasPermission("can_read"))
}

func TestRole_PermissionMap_Empty(t *testing.T) {
	role := &Role{Permissions: ""}
	assert.Empty(t, role.PermissionMap())
}

func TestRequireRoles_FastPath(t *testing.T) {
	// A flag-only admin with zero role rows passes the admin guard before
	// any role lookup.
	flagged := &User{IsAdmin: true}
	assert.NoError(t, RequireAdmin(flagged))

	// The fast path never applies to non-administrative candidate sets.
	citizenOnly := RequireRoles(RoleUser)
	require.Error(t, citizenOnly(flagged))
}

func TestRequireRoles_Forbidden(t *testing.T) {
	citizen := &User{Roles: []Role{roleNamed(RoleUser)}}

	err := RequireAdmin(citizen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
	assert.Contains(t, err.Error(), "superadmin")
}

func TestRequireModerator_AdmitsHigherTiers(t *testing.T) {
	assert.NoError(t, RequireModerator(&User{Roles: []Role{roleNamed(RoleModerator)}}))
	assert.NoError(t, RequireModerator(&User{Roles: []Role{roleNamed(RoleAdmin)}}))
	assert.NoError(t, RequireModerator(&User{IsAdmin: true}))
	assert.Error(t, RequireModerator(&User{Roles: []Role{roleNamed(RoleUser)}}))
}

func TestRequireSuperadmin(t *testing.T) {
	assert.NoError(t, RequireSuperadmin(&User{Roles: []Role{roleNamed(RoleSuperadmin)}}))
	assert.Error(t, RequireSuperadmin(&User{IsAdmin: true}))
	assert.Error(t, RequireSuperadmin(&User{Roles: []Role{roleNamed(RoleAdmin)}}))
}

func TestRequireVerified(t *testing.T) {
	assert.NoError(t, RequireVerified(&User{IsVerified: true}))
	assert.Error(t, RequireVerified(&User{}))
}

func TestRequirePermission(t *testing.T) {
	moderator := &User{Roles: []Role{
		{Name: RoleModerator, Permissions: `{"can_moderate": true}`},
	}}

	assert.NoError(t, RequirePermission("can_moderate")(moderator))
	assert.Error(t, RequirePermission("can_delete")(moderator))
}
