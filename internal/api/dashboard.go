// Copyright (c) 2026 JanaSewa. All rights reserved.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/respond"
)

// DashboardHandler serves the role-gated landing endpoints the web client
// redirects to after login.
type DashboardHandler struct {
	resolver *auth.Resolver
}

// NewDashboardHandler constructs a new [DashboardHandler].
func NewDashboardHandler(resolver *auth.Resolver) *DashboardHandler {
	return &DashboardHandler{resolver: resolver}
}

// Routes returns a [chi.Router] with the dashboard endpoints.
//
// # Endpoints
//
//   - GET /user       : any authenticated account
//   - GET /admin      : admin or superadmin
//   - GET /superadmin : superadmin only
func (handler *DashboardHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireAuth(handler.resolver))

	router.Get("/user", handler.user)

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireAdmin))
		r.Get("/admin", handler.admin)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireSuperadmin))
		r.Get("/superadmin", handler.superadmin)
	})

	return router
}

func (handler *DashboardHandler) user(writer http.ResponseWriter, request *http.Request) {
	account, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Welcome to your dashboard",
		"user":    account,
	})
}

func (handler *DashboardHandler) admin(writer http.ResponseWriter, request *http.Request) {
	account, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Welcome to the admin dashboard",
		"user":    account,
	})
}

func (handler *DashboardHandler) superadmin(writer http.ResponseWriter, request *http.Request) {
	account, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Welcome to the superadmin dashboard",
		"user":    account,
	})
}
