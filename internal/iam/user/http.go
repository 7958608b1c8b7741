// Copyright (c) 2026 JanaSewa. All rights reserved.

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janasewa/janasewa/internal/iam/auth"
	requestutil "github.com/janasewa/janasewa/internal/platform/request"
	"github.com/janasewa/janasewa/internal/platform/respond"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

// Handler implements the user administration HTTP endpoints.
type Handler struct {
	userService *Service
	resolver    *auth.Resolver
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, resolver *auth.Resolver) *Handler {
	return &Handler{userService: service, resolver: resolver}
}

// Routes returns a [chi.Router] with user-management routes.
//
// # Endpoints
//
// Self-service (any authenticated user):
//   - GET  /profile
//   - PUT  /profile
//
// Admin console (admin or superadmin):
//   - GET    /           : list with search/filter/pagination
//   - POST   /           : create a pre-verified account
//   - GET    /roles/all  : list active roles
//   - GET    /{id}
//   - PUT    /{id}
//   - DELETE /{id}
//   - POST   /{id}/roles
//   - DELETE /{id}/roles
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireAuth(handler.resolver))

	router.Get("/profile", handler.profile)
	router.Put("/profile", handler.updateProfile)

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/roles/all", handler.listRoles)
		r.Get("/{id}", handler.get)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/roles", handler.assignRoles)
		r.Delete("/{id}/roles", handler.removeRoles)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	IsActive *bool    `json:"is_active"`
	RoleIDs  []string `json:"role_ids"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

type roleSetRequest struct {
	RoleIDs []string `json:"role_ids"`
}

/*
Profile returns the authenticated user's own account.

GET /api/v1/users/profile
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile changes the authenticated user's name and/or email.

PUT /api/v1/users/profile

Description: A changed email resets the verification flag.

Response:
  - 200: User: Updated profile
  - 409: ErrConflict: Email already in use
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Email != "" {
		validator.Email(auth.FieldEmail, input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.UpdateProfile(request.Context(), user.ID, input.Name, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
List returns accounts for the admin console.

GET /api/v1/users?limit=&offset=&search=&is_active=&role=
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := auth.ListFilter{
		Search:   requestutil.QueryString(request, "search", ""),
		IsActive: requestutil.QueryBool(request, "is_active"),
		Role:     requestutil.QueryString(request, "role", ""),
		Limit:    requestutil.QueryInt(request, "limit", 100),
		Offset:   requestutil.QueryInt(request, "offset", 0),
	}

	users, err := handler.userService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
Get returns a single account.

GET /api/v1/users/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.userService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Create provisions a new pre-verified account.

POST /api/v1/users

Response:
  - 201: User: Created account
  - 403: ErrForbidden: Superadmin role requested without superadmin actor
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		Password(auth.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	created, err := handler.userService.Create(request.Context(), actor, CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		IsActive: isActive,
		RoleIDs:  input.RoleIDs,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Update modifies account fields.

PUT /api/v1/users/{id}
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Email(auth.FieldEmail, *input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.Update(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Name:     input.Name,
		Email:    input.Email,
		IsActive: input.IsActive,
		IsAdmin:  input.IsAdmin,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Delete removes an account.

DELETE /api/v1/users/{id}

Response:
  - 200: Success
  - 403: ErrForbidden: Superadmin target without superadmin actor
  - 409: ErrConflict: Self-deletion attempt
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), actor, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "User deleted successfully",
	})
}

/*
AssignRoles attaches roles to an account.

POST /api/v1/users/{id}/roles
*/
func (handler *Handler) assignRoles(writer http.ResponseWriter, request *http.Request) {
	actor, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input roleSetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if len(input.RoleIDs) == 0 {
		respond.Error(writer, request, validate.RequiredError("role_ids", "is required"))
		return
	}

	updated, err := handler.userService.AssignRoles(request.Context(), actor, requestutil.Param(request, "id"), input.RoleIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
RemoveRoles detaches roles from an account.

DELETE /api/v1/users/{id}/roles
*/
func (handler *Handler) removeRoles(writer http.ResponseWriter, request *http.Request) {
	actor, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input roleSetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if len(input.RoleIDs) == 0 {
		respond.Error(writer, request, validate.RequiredError("role_ids", "is required"))
		return
	}

	updated, err := handler.userService.RemoveRoles(request.Context(), actor, requestutil.Param(request, "id"), input.RoleIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
ListRoles returns all active role definitions.

GET /api/v1/users/roles/all
*/
func (handler *Handler) listRoles(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.userService.ListRoles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, roles)
}
