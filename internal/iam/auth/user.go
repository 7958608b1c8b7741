// Copyright (c) 2026 JanaSewa. All rights reserved.

/*
Package auth implements the citizen identity and access management layer.

It defines the core domain entities (User, Role) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered citizen or staff account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	IsAdmin      bool       `json:"is_admin"`
	Roles        []Role     `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// # Authorization Queries

// HasRole reports whether the user holds the named active role.
func (user *User) HasRole(name string) bool {
	for _, role := range user.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the named roles.
func (user *User) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if user.HasRole(name) {
			return true
		}
	}
	return false
}

// CheckIsAdmin is the single canonical "is this user an administrator"
// question. It is true when the fast-path flag is set OR the user holds the
// admin or superadmin role. Every admin decision in the platform goes
// through this method so the two signals can never diverge per call site.
func (user *User) CheckIsAdmin() bool {
	return user.IsAdmin || user.HasAnyRole(RoleAdmin, RoleSuperadmin)
}

// IsSuperadmin reports whether the user holds the superadmin role.
// Unlike CheckIsAdmin, the is_admin flag alone never grants superadmin.
func (user *User) IsSuperadmin() bool {
	return user.HasRole(RoleSuperadmin)
}

// HasPermission reports whether any of the user's roles grants the named
// permission key, either directly or via the wildcard. Roles with malformed
// permission data are skipped, never granted.
func (user *User) HasPermission(key string) bool {
	for _, role := range user.Roles {
		permissions := role.PermissionMap()
		if permissions[key] || permissions[PermissionWildcard] {
			return true
		}
	}
	return false
}

// RoleNames returns the names of all roles held by the user.
func (user *User) RoleNames() []string {
	names := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		names = append(names, role.Name)
	}
	return names
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldToken           = "token"
	FieldRefreshToken    = "refresh_token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldMessage         = "message"
)
