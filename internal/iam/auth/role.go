// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"encoding/json"
	"time"
)

// # Role Names

// Well-known role names seeded at startup. Role membership is a many-to-many
// relation; these constants only name the built-in tiers.
const (
	RoleUser       = "user"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// PermissionWildcard grants every permission key when present in a role's
// permission map. Only the superadmin seed role carries it.
const PermissionWildcard = "all"

// # Domain Entities

// Role represents a named authorization tier with a free-form permission map.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions string    `json:"permissions"` // JSON text, e.g. {"can_read":true}
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionMap parses the role's JSON permission text into a lookup map.
//
// Malformed permission data yields an empty map: a corrupt role can never
// grant access it was not meant to.
func (role *Role) PermissionMap() map[string]bool {
	permissions := map[string]bool{}
	if role.Permissions == "" {
		return permissions
	}
	if err := json.Unmarshal([]byte(role.Permissions), &permissions); err != nil {
		return map[string]bool{}
	}
	return permissions
}

// # Seed Data

// DefaultRole describes one of the built-in roles created at startup.
type DefaultRole struct {
	Name        string
	Description string
	Permissions string
}

// DefaultRoles returns the built-in role set. Seeding is idempotent: roles
// that already exist are left untouched so operator edits survive restarts.
func DefaultRoles() []DefaultRole {
	return []DefaultRole{
		{
			Name:        RoleUser,
			Description: "Regular citizen with basic access",
			Permissions: `{"can_read": true, "can_write": true}`,
		},
		{
			Name:        RoleModerator,
			Description: "Moderator with content management access",
			Permissions: `{"can_read": true, "can_write": true, "can_moderate": true}`,
		},
		{
			Name:        RoleAdmin,
			Description: "Administrator with full access",
			Permissions: `{"can_read": true, "can_write": true, "can_moderate": true, "can_delete": true, "can_manage_users": true}`,
		},
		{
			Name:        RoleSuperadmin,
			Description: "Super administrator with unrestricted access",
			Permissions: `{"all": true}`,
		},
	}
}
