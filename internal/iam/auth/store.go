// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// ListFilter narrows admin user listings.
type ListFilter struct {
	// Search matches name or email, case-insensitively.
	Search string
	// IsActive filters by activation state when non-nil.
	IsActive *bool
	// Role keeps only users holding the named role when non-empty.
	Role string
	// Limit / Offset implement keyless pagination.
	Limit  int
	Offset int
}

// UserRepository defines the data access contract for user accounts.
// Every Find* method hydrates the user's active role set.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID, roles included.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email, roles included.

		Parameters:
		  - context: context.Context
		  - email: string (lowercase)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns accounts matching the filter, roles included.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*User: Matching accounts
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate email)
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to name, email, and the account flags.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		MarkVerified updates the user's status to is_verified = true.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error

	/*
		StampLastLogin records the current time as the user's last login.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	StampLastLogin(context context.Context, userID string) error

	/*
		Delete permanently removes the account. Role associations are removed
		by the schema's cascade; role definitions are untouched.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		AddRoleIfAbsent associates a role with the user. Adding an already
		held role is a no-op, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roleID: string

		Returns:
		  - error: Persistence failures
	*/
	AddRoleIfAbsent(context context.Context, userID, roleID string) error

	/*
		RemoveRoles disassociates the given roles from the user. Removing a
		role the user does not hold is a no-op.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roleIDs: []string

		Returns:
		  - error: Persistence failures
	*/
	RemoveRoles(context context.Context, userID string, roleIDs []string) error
}

// # Role Data Access

// RoleRepository defines the data access contract for role definitions.
type RoleRepository interface {

	/*
		FindByName returns the active role with the given name.

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - *Role: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByName(context context.Context, name string) (*Role, error)

	/*
		FindByIDs returns the active roles matching the given IDs.

		Parameters:
		  - context: context.Context
		  - ids: []string

		Returns:
		  - []Role: Matching roles (missing IDs are silently dropped)
		  - error: Database retrieval failures
	*/
	FindByIDs(context context.Context, ids []string) ([]Role, error)

	/*
		ListActive returns all active role definitions.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Role: Active roles
		  - error: Database retrieval failures
	*/
	ListActive(context context.Context) ([]Role, error)

	/*
		EnsureDefaults seeds the built-in roles. Idempotent: existing roles
		are never modified.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	EnsureDefaults(context context.Context) error
}

// # Volatile Data Access

// VerificationTokenRepository defines the contract for storing volatile email verification tokens.
type VerificationTokenRepository interface {

	/*
		Set stores a verification token associated with a userID.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given verification token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: Retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a verification token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
