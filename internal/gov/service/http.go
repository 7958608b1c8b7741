package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janasewa/janasewa/internal/iam/auth"
	requestutil "github.com/janasewa/janasewa/internal/platform/request"
	"github.com/janasewa/janasewa/internal/platform/respond"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

type Handler struct {
	catalog  *Catalog
	resolver *auth.Resolver
}

func NewHandler(catalog *Catalog, resolver *auth.Resolver) *Handler {
	return &Handler{catalog: catalog, resolver: resolver}
}

// Routes exposes the catalogue. Reads are public, writes are admin-only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.getBySlug)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(handler.resolver))
		r.Use(auth.Require(auth.RequireAdmin))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Department  string `json:"department"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Department  *string `json:"department"`
	IsActive    *bool   `json:"is_active"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	includeInactive := false
	if flag := requestutil.QueryBool(request, "include_inactive"); flag != nil {
		// Only admins may see retired services.
		if user := auth.FromContext(request.Context()); user != nil && user.CheckIsAdmin() {
			includeInactive = *flag
		}
	}

	services, err := handler.catalog.List(request.Context(), includeInactive)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, services)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.catalog.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, service)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.catalog.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Department:  input.Department,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.catalog.Update(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Department:  input.Department,
		IsActive:    input.IsActive,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalog.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
