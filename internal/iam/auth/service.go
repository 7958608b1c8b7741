// Copyright (c) 2026 JanaSewa. All rights reserved.

/*
Identity and access management orchestration.

It handles everything from citizen registration and secure password hashing
to stateless JWT issuance with typed access/refresh tokens.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interfaces for Postgres (Users, Roles) and Redis
    (verification tokens).
  - Security: Leverages bcrypt hashing and HS256-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/constants"
	"github.com/janasewa/janasewa/internal/platform/sec"
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository              UserRepository
	roleRepository              RoleRepository
	verificationTokenRepository VerificationTokenRepository
	tokenCodec                  *sec.TokenCodec
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	verifyRepo VerificationTokenRepository,
	tokenCodec *sec.TokenCodec,
) *Service {
	return &Service{
		userRepository:              userRepo,
		roleRepository:              roleRepo,
		verificationTokenRepository: verifyRepo,
		tokenCodec:                  tokenCodec,
	}
}

// NormalizeEmail lowercases and trims an email so lookups and uniqueness
// are effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new citizen.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new citizen with the default 'user' role, handling
password hashing and initial verification token state.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity, role set included
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsVerified:   false,
		IsAdmin:      false,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Every self-registered account starts with the default citizen role.
	if defaultRole, err := service.roleRepository.FindByName(context, RoleUser); err == nil {
		if err := service.userRepository.AddRoleIfAbsent(context, user.ID, defaultRole.ID); err != nil {
			return nil, fmt.Errorf("auth_service_assign_default_role_failed: %w", err)
		}
	}

	// Generate and store a verification token in Redis as an async-ready side effect
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err == nil {
		_ = service.verificationTokenRepository.Set(context, token, user.ID, constants.VerifyTokenTTL)
		// TODO: Trigger the notification service with the verification link
	}

	// Re-read so the response carries the hydrated role set.
	return service.userRepository.FindByID(context, user.ID)
}

// # Authentication Flow

// TokenGrant is the transport-ready result of a successful authentication.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
	RedirectTo   string `json:"redirect_to"`
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with a constant-time password comparison,
stamps the last login, and returns an access/refresh token pair with the
dashboard redirect derived from the admin check.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *TokenGrant: Transport-ready token pair
  - error: InvalidCredentials, AccountInactive, or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*TokenGrant, error) {

	// Unknown email and wrong password produce the same error to prevent
	// account enumeration.
	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(email))
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	if !user.IsActive {
		return nil, apperr.AccountInactive()
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	// Best-effort: a failed timestamp must not block the login.
	_ = service.userRepository.StampLastLogin(context, user.ID)

	accessToken, err := service.tokenCodec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenCodec.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	grant := service.grantFor(user)
	grant.AccessToken = accessToken
	grant.RefreshToken = refreshToken
	return grant, nil
}

/*
Refresh exchanges a valid refresh token for a fresh access token.

Description: Decodes the token as the refresh kind, then re-checks that the
account still exists and is active, so deactivation takes effect before the
refresh token expires.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenGrant: Fresh access token (no new refresh token)
  - error: TokenExpired, TokenInvalid, AccountInactive, or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenGrant, error) {
	claims, err := service.tokenCodec.Decode(refreshToken, sec.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, claims.Subject)
	if err != nil {
		return nil, apperr.TokenInvalid()
	}

	if !user.IsActive {
		return nil, apperr.AccountInactive()
	}

	accessToken, err := service.tokenCodec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	grant := service.grantFor(user)
	grant.AccessToken = accessToken
	return grant, nil
}

// grantFor derives the role label and dashboard redirect for a token response.
func (service *Service) grantFor(user *User) *TokenGrant {
	grant := &TokenGrant{
		TokenType: TokenTypeBearer,
		ExpiresIn: int64(service.tokenCodec.AccessTTL().Seconds()),
	}
	if user.CheckIsAdmin() {
		grant.Role = RoleAdmin
		grant.RedirectTo = RedirectAdminDashboard
	} else {
		grant.Role = RoleUser
		grant.RedirectTo = RedirectUserDashboard
	}
	return grant
}

// # Account Maintenance

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password against a fresh read of the
account and rejects a new password identical to the current one.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: ValidationError or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.ValidationError("Current password is incorrect")
	}

	if currentPassword == newPassword {
		return apperr.ValidationError("New password must be different from the current password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
VerifyEmail confirms a user's email address using a secure token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: NotFound (unknown token) or database errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	userID, err := service.verificationTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, userID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	// Cleanup the used verification token from Redis
	_ = service.verificationTokenRepository.Delete(context, token)

	return nil
}
