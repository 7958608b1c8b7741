// Copyright (c) 2026 JanaSewa. All rights reserved.

/*
HTTP delivery layer for the authentication lifecycle.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface, plus an OAuth2-style
    form-encoded login for standard clients.
  - Security: Handles JWT orchestration for access and refresh tokens.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/janasewa/janasewa/internal/platform/request"
	"github.com/janasewa/janasewa/internal/platform/respond"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Refresh, Verification).
type Handler struct {
	authService *Service
	resolver    *Resolver
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, resolver *Resolver) *Handler {
	return &Handler{authService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register     : Creates a new account.
//   - POST /login        : OAuth2-style form login (username = email).
//   - POST /login/json   : JSON variant of login.
//   - POST /refresh      : Exchanges a refresh token for an access token.
//   - POST /verify-email : Confirms email ownership.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.loginForm)
	router.Post("/login/json", handler.loginJSON)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(RequireAuth(handler.resolver))
		r.Get("/me", handler.me)
		r.Post("/change-password", handler.changePassword)
		r.Delete("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginJSONRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Register handles the creation of a new citizen account.

POST /api/v1/auth/register

Description: Validates input (including password complexity), checks for
identity conflicts, and persists a new user profile with the default role.

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 201: User: Created user profile (password hash omitted)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 2).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
LoginForm authenticates via OAuth2-style form encoding.

POST /api/v1/auth/login

Description: Accepts application/x-www-form-urlencoded credentials where
the username field carries the email, matching standard OAuth2 password
flow clients.

Request:
  - Form: username (email), password

Response:
  - 200: TokenGrant: Access/refresh tokens, role, redirect target
  - 401: ErrInvalidCredentials: Unknown email or wrong password
  - 403: ErrAccountInactive: Deactivated account
*/
func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, validate.RequiredError("username", "Malformed form payload"))
		return
	}

	handler.login(writer, request, request.PostFormValue("username"), request.PostFormValue("password"))
}

/*
LoginJSON authenticates via a JSON body.

POST /api/v1/auth/login/json

Request:
  - Body: loginJSONRequest (Email, Password)

Response:
  - 200: TokenGrant: Access/refresh tokens, role, redirect target
  - 401: ErrInvalidCredentials: Unknown email or wrong password
  - 403: ErrAccountInactive: Deactivated account
*/
func (handler *Handler) loginJSON(writer http.ResponseWriter, request *http.Request) {
	var input loginJSONRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	handler.login(writer, request, input.Email, input.Password)
}

// login is the shared tail of both login variants.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request, email, password string) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email)
	validator.Required(FieldPassword, password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.authService.Login(request.Context(), email, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, grant)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: TokenGrant: Fresh access token credentials
  - 401: ErrTokenExpired / ErrTokenInvalid: Unusable refresh token
  - 403: ErrAccountInactive: Deactivated account
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	grant, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, grant)
}

/*
Me returns the authenticated user's profile.

GET /api/v1/auth/me

Response:
  - 200: User: Profile with hydrated role list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password before applying a new one. The
new password must differ from the current one and meet complexity rules.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 400: ErrValidation: Wrong current password, weak or identical new password
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	user, err := RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		Password(FieldNewPassword, input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		user.ID,
		input.CurrentPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
VerifyEmail confirms a user's email ownership.

POST /api/v1/auth/verify-email

Request:
  - Body: verifyEmailRequest (Token)

Response:
  - 200: Success: Email verified
  - 404: ErrNotFound: Unknown or expired token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email verified successfully",
	})
}

/*
Logout acknowledges the end of a client session.

DELETE /api/v1/auth/logout

Description: Tokens are stateless and cannot be revoked before expiry; the
client is expected to discard its copies. The endpoint exists so clients
have a uniform logout call.

Response:
  - 200: Success: Acknowledged
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out successfully",
	})
}
