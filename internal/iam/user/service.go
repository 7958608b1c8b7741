// Copyright (c) 2026 JanaSewa. All rights reserved.

/*
Package user implements account administration on top of the identity domain.

It covers self-service profile management plus the admin console operations:
listing and filtering accounts, creating pre-verified users, updating account
flags, deletion with self- and superadmin-protection, and role assignment.

# Architecture

This package reuses the repositories and entities of the auth domain rather
than defining a parallel user model; only the orchestration differs.
*/
package user

import (
	"context"
	"fmt"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/sec"
)

// Service implements user administration use cases.
type Service struct {
	userRepository auth.UserRepository
	roleRepository auth.RoleRepository
}

// NewService constructs a new [Service].
func NewService(userRepo auth.UserRepository, roleRepo auth.RoleRepository) *Service {
	return &Service{
		userRepository: userRepo,
		roleRepository: roleRepo,
	}
}

// # Self-Service

/*
UpdateProfile lets a user change their own name and email.

Description: A changed email resets the verification flag, since ownership
of the new address has not been proven yet.

Parameters:
  - context: context.Context
  - userID: string
  - name: string (empty = unchanged)
  - email: string (empty = unchanged)

Returns:
  - *User: Updated profile
  - error: Conflict on duplicate email, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID, name, email string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}

	if email != "" {
		normalized := auth.NormalizeEmail(email)
		if normalized != user.Email {
			user.Email = normalized
			user.IsVerified = false
		}
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, userID)
}

// # Admin Console

/*
List returns accounts matching the admin console filter.

Parameters:
  - context: context.Context
  - filter: auth.ListFilter

Returns:
  - []*User: Matching accounts with hydrated roles
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter auth.ListFilter) ([]*auth.User, error) {
	return service.userRepository.List(context, filter)
}

/*
Get returns a single account by id.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Account with hydrated roles
  - error: NotFound or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*auth.User, error) {
	return service.userRepository.FindByID(context, id)
}

// CreateInput holds the data for an admin-created account.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	IsActive bool
	RoleIDs  []string
}

/*
Create provisions a new account from the admin console.

Description: Admin-created accounts are pre-verified. When no roles are
given the default citizen role is assigned; otherwise the requested role
set is attached and the admin flag synced from it.

Parameters:
  - context: context.Context
  - actor: *auth.User (the acting administrator)
  - input: CreateInput

Returns:
  - *User: Created account with hydrated roles
  - error: Conflict, Forbidden (superadmin role without superadmin actor), or storage failures
*/
func (service *Service) Create(context context.Context, actor *auth.User, input CreateInput) (*auth.User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	created := &auth.User{
		Name:         input.Name,
		Email:        auth.NormalizeEmail(input.Email),
		PasswordHash: hashedPassword,
		IsActive:     input.IsActive,
		IsVerified:   true,
	}

	if err := service.userRepository.Create(context, created); err != nil {
		return nil, err
	}

	if len(input.RoleIDs) == 0 {
		if defaultRole, err := service.roleRepository.FindByName(context, auth.RoleUser); err == nil {
			if err := service.userRepository.AddRoleIfAbsent(context, created.ID, defaultRole.ID); err != nil {
				return nil, err
			}
		}
		return service.userRepository.FindByID(context, created.ID)
	}

	roles, err := service.roleRepository.FindByIDs(context, input.RoleIDs)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if role.Name == auth.RoleSuperadmin && !actor.IsSuperadmin() {
			return nil, apperr.Forbidden("Only superadmins can assign the superadmin role")
		}
	}
	for _, role := range roles {
		if err := service.userRepository.AddRoleIfAbsent(context, created.ID, role.ID); err != nil {
			return nil, err
		}
	}

	if err := service.syncAdminFlag(context, created.ID); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, created.ID)
}

// UpdateInput holds the admin-updatable account fields. Nil means unchanged.
type UpdateInput struct {
	Name     *string
	Email    *string
	IsActive *bool
	IsAdmin  *bool
}

/*
Update modifies account fields from the admin console.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *User: Updated account
  - error: NotFound, Conflict, or storage failures
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		normalized := auth.NormalizeEmail(*input.Email)
		if normalized != user.Email {
			user.Email = normalized
			user.IsVerified = false
		}
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, id)
}

/*
Delete permanently removes an account.

Description: Self-deletion is refused as a Conflict before any other gate,
so an administrator deleting their own account always sees the same answer
regardless of role. Superadmin accounts can only be deleted by superadmins.

Parameters:
  - context: context.Context
  - actor: *auth.User
  - id: string

Returns:
  - error: Conflict (self-deletion), Forbidden, NotFound, or storage failures
*/
func (service *Service) Delete(context context.Context, actor *auth.User, id string) error {

	// The self-deletion gate comes first, ahead of existence and role checks.
	if actor.ID == id {
		return apperr.Conflict("You cannot delete your own account")
	}

	target, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return err
	}

	if target.IsSuperadmin() && !actor.IsSuperadmin() {
		return apperr.Forbidden("Only superadmins can delete a superadmin account")
	}

	return service.userRepository.Delete(context, id)
}

// # Role Assignment

/*
AssignRoles attaches a set of roles to an account.

Description: Assigning the superadmin role requires an acting superadmin.
Already-held roles are skipped. The is_admin flag is re-synced from the
resulting role set.

Parameters:
  - context: context.Context
  - actor: *auth.User
  - userID: string
  - roleIDs: []string

Returns:
  - *User: Account with the updated role set
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) AssignRoles(context context.Context, actor *auth.User, userID string, roleIDs []string) (*auth.User, error) {
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return nil, err
	}

	roles, err := service.roleRepository.FindByIDs(context, roleIDs)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if role.Name == auth.RoleSuperadmin && !actor.IsSuperadmin() {
			return nil, apperr.Forbidden("Only superadmins can assign the superadmin role")
		}
	}

	for _, role := range roles {
		if err := service.userRepository.AddRoleIfAbsent(context, userID, role.ID); err != nil {
			return nil, err
		}
	}

	if err := service.syncAdminFlag(context, userID); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, userID)
}

/*
RemoveRoles detaches a set of roles from an account.

Description: Removing the superadmin role requires an acting superadmin,
and administrators cannot strip their own admin or superadmin role. The
is_admin flag is re-synced from the resulting role set.

Parameters:
  - context: context.Context
  - actor: *auth.User
  - userID: string
  - roleIDs: []string

Returns:
  - *User: Account with the updated role set
  - error: Forbidden, ValidationError, NotFound, or storage failures
*/
func (service *Service) RemoveRoles(context context.Context, actor *auth.User, userID string, roleIDs []string) (*auth.User, error) {
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return nil, err
	}

	roles, err := service.roleRepository.FindByIDs(context, roleIDs)
	if err != nil {
		return nil, err
	}

	removable := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Name == auth.RoleSuperadmin && !actor.IsSuperadmin() {
			return nil, apperr.Forbidden("Only superadmins can remove the superadmin role")
		}
		if actor.ID == userID && (role.Name == auth.RoleAdmin || role.Name == auth.RoleSuperadmin) {
			return nil, apperr.ValidationError("You cannot remove your own administrative role")
		}
		removable = append(removable, role.ID)
	}

	if err := service.userRepository.RemoveRoles(context, userID, removable); err != nil {
		return nil, err
	}

	if err := service.syncAdminFlag(context, userID); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, userID)
}

/*
ListRoles returns all active role definitions for the admin console.

Parameters:
  - context: context.Context

Returns:
  - []auth.Role: Active roles
  - error: Storage failures
*/
func (service *Service) ListRoles(context context.Context) ([]auth.Role, error) {
	return service.roleRepository.ListActive(context)
}

// syncAdminFlag re-derives is_admin from the account's current role set so
// the fast-path flag and the role graph cannot drift apart.
func (service *Service) syncAdminFlag(context context.Context, userID string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	shouldBeAdmin := user.HasAnyRole(auth.RoleAdmin, auth.RoleSuperadmin)
	if user.IsAdmin == shouldBeAdmin {
		return nil
	}

	user.IsAdmin = shouldBeAdmin
	return service.userRepository.Update(context, user)
}
