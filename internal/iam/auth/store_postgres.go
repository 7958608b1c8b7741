// Copyright (c) 2026 JanaSewa. All rights reserved.

// PostgreSQL implementations of the identity repositories.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/dberr"
	"github.com/janasewa/janasewa/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, is_active, is_verified, is_admin, created_at, updated_at, last_login`

// scanUser hydrates one user row; the role set is loaded separately.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsVerified,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID, roles included.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	if err := repository.loadRoles(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address, roles included.

Parameters:
  - context: context.Context
  - email: string (lowercase)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	if err := repository.loadRoles(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
List retrieves user accounts matching the filter, roles included.

Description: Supports search over name/email, activation filtering,
role filtering, and limit/offset pagination for the admin console.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*User: Matching accounts
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) List(context context.Context, filter ListFilter) ([]*User, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		position := fmt.Sprintf("$%d", len(args))
		conditions = append(conditions, "(LOWER(u.name) LIKE "+position+" OR LOWER(u.email) LIKE "+position+")")
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("u.is_active = $%d", len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = u.id AND r.name = $%d)",
			len(args)))
	}

	query := `SELECT u.id, u.name, u.email, u.password_hash, u.is_active, u.is_verified, u.is_admin, u.created_at, u.updated_at, u.last_login FROM users u`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY u.created_at"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	for _, user := range users {
		if err := repository.loadRoles(context, user); err != nil {
			return nil, err
		}
	}

	return users, nil
}

/*
Create persists a new user record into the users table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, is_active, is_verified, is_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsVerified,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Email is already registered")
	}

	return nil
}

/*
Update persists changes to a user's mutable account fields.

Description: Synchronizes name, email, and the account flags with the
database, refreshing the updated_at timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict on duplicate email, or update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, is_active = $4, is_verified = $5, is_admin = $6, updated_at = $7
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.IsActive,
		user.IsVerified,
		user.IsAdmin,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Email is already registered")
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified updates the user's status to is_verified = true.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = `UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE id = $1`
	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}

/*
StampLastLogin records the current time as the user's last successful login.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) StampLastLogin(context context.Context, userID string) error {
	const query = `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_stamp_last_login_failed: %w", err)
	}
	return nil
}

/*
Delete permanently removes a user account.

Description: The user_roles cascade removes role associations; role
definitions themselves are never touched.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	return nil
}

/*
AddRoleIfAbsent associates a role with a user. Idempotent.

Parameters:
  - context: context.Context
  - userID: string
  - roleID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) AddRoleIfAbsent(context context.Context, userID, roleID string) error {
	const query = `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	_, err := repository.pool.Exec(context, query, userID, roleID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_add_role_failed: %w", err)
	}
	return nil
}

/*
RemoveRoles disassociates the given roles from a user. Idempotent.

Parameters:
  - context: context.Context
  - userID: string
  - roleIDs: []string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) RemoveRoles(context context.Context, userID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	const query = `DELETE FROM user_roles WHERE user_id = $1 AND role_id = ANY($2)`
	_, err := repository.pool.Exec(context, query, userID, roleIDs)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_remove_roles_failed: %w", err)
	}
	return nil
}

// loadRoles hydrates the user's active role set.
func (repository *PostgresUserRepository) loadRoles(context context.Context, user *User) error {
	const query = `
		SELECT r.id, r.name, r.description, r.permissions, r.is_active, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 AND r.is_active = TRUE
		ORDER BY r.name`

	rows, err := repository.pool.Query(context, query, user.ID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_load_roles_failed: %w", err)
	}
	defer rows.Close()

	user.Roles = []Role{}
	for rows.Next() {
		var role Role
		err := rows.Scan(
			&role.ID,
			&role.Name,
			&role.Description,
			&role.Permissions,
			&role.IsActive,
			&role.CreatedAt,
			&role.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres_user_repo_load_roles_scan_failed: %w", err)
		}
		user.Roles = append(user.Roles, role)
	}

	return rows.Err()
}

// # Role Repository

// PostgresRoleRepository implements the RoleRepository interface using pgx.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new PostgreSQL implementation of the RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

const roleColumns = `id, name, description, permissions, is_active, created_at, updated_at`

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.Permissions,
		&role.IsActive,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	return role, err
}

/*
FindByName returns the active role with the given name.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Role: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRoleRepository) FindByName(context context.Context, name string) (*Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1 AND is_active = TRUE`

	role, err := scanRole(repository.pool.QueryRow(context, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role")
		}
		return nil, fmt.Errorf("postgres_role_repo_find_by_name_failed: %w", err)
	}

	return &role, nil
}

/*
FindByIDs returns the active roles matching the given IDs.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []Role: Matching roles (missing IDs are dropped silently)
  - error: Execution errors
*/
func (repository *PostgresRoleRepository) FindByIDs(context context.Context, ids []string) ([]Role, error) {
	if len(ids) == 0 {
		return []Role{}, nil
	}

	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = ANY($1) AND is_active = TRUE`

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_find_by_ids_failed: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_role_repo_find_by_ids_scan_failed: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

/*
ListActive returns every active role definition, ordered by name.

Parameters:
  - context: context.Context

Returns:
  - []Role: Active roles
  - error: Execution errors
*/
func (repository *PostgresRoleRepository) ListActive(context context.Context) ([]Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE is_active = TRUE ORDER BY name`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_role_repo_list_scan_failed: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

/*
EnsureDefaults seeds the built-in roles at startup.

Description: Idempotent seeding via ON CONFLICT DO NOTHING, so operator
edits to descriptions or permissions survive restarts.

Parameters:
  - context: context.Context

Returns:
  - error: Execution errors
*/
func (repository *PostgresRoleRepository) EnsureDefaults(context context.Context) error {
	const query = `
		INSERT INTO roles (id, name, description, permissions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		ON CONFLICT (name) DO NOTHING`

	for _, seed := range DefaultRoles() {
		_, err := repository.pool.Exec(context, query, uuid.New(), seed.Name, seed.Description, seed.Permissions)
		if err != nil {
			return fmt.Errorf("postgres_role_repo_seed_failed: %w", err)
		}
	}

	return nil
}
