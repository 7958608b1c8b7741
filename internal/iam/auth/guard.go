// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"strings"

	"github.com/janasewa/janasewa/internal/platform/apperr"
)

// # Authorization Guards

// Guard is a composable predicate over a resolved principal. A nil return
// grants access; otherwise the returned error describes the refusal.
type Guard func(user *User) error

// RequireRoles builds a guard that admits users holding at least one of the
// named roles.
//
// Fast path: when the candidate set includes an administrative role and the
// user carries the is_admin flag, access is granted before any role-set
// lookup. A flag-only admin (zero role rows) therefore still passes admin
// checks.
func RequireRoles(names ...string) Guard {
	adminCandidate := false
	for _, name := range names {
		if name == RoleAdmin || name == RoleSuperadmin {
			adminCandidate = true
			break
		}
	}

	return func(user *User) error {
		if adminCandidate && user.IsAdmin {
			return nil
		}
		if user.HasAnyRole(names...) {
			return nil
		}
		return apperr.Forbidden("Access denied. Required roles: " + strings.Join(names, ", "))
	}
}

// RequirePermission builds a guard that admits users whose role set grants
// the named permission key (directly or via the wildcard).
func RequirePermission(key string) Guard {
	return func(user *User) error {
		if user.HasPermission(key) {
			return nil
		}
		return apperr.Forbidden("Access denied. Required permission: " + key)
	}
}

// RequireSuperadmin admits only holders of the superadmin role. The is_admin
// flag alone is deliberately insufficient here.
func RequireSuperadmin(user *User) error {
	if user.IsSuperadmin() {
		return nil
	}
	return apperr.Forbidden("Superadmin access required")
}

// RequireVerified admits only accounts with a verified email address.
func RequireVerified(user *User) error {
	if user.IsVerified {
		return nil
	}
	return apperr.EmailNotVerified()
}

// Prebuilt guards for the common access tiers.
var (
	RequireAdmin     = RequireRoles(RoleAdmin, RoleSuperadmin)
	RequireModerator = RequireRoles(RoleModerator, RoleAdmin, RoleSuperadmin)
	RequireUser      = RequireRoles(RoleUser, RoleModerator, RoleAdmin, RoleSuperadmin)
)
