package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janasewa/janasewa/internal/iam/auth"
	requestutil "github.com/janasewa/janasewa/internal/platform/request"
	"github.com/janasewa/janasewa/internal/platform/respond"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

type Handler struct {
	desk     *Desk
	resolver *auth.Resolver
}

func NewHandler(desk *Desk, resolver *auth.Resolver) *Handler {
	return &Handler{desk: desk, resolver: resolver}
}

// Routes requires authentication throughout. Submitting additionally
// requires a verified email, and the review console requires an admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireAuth(handler.resolver))

	router.Get("/mine", handler.listMine)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireVerified))
		r.Post("/", handler.submit)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireAdmin))
		r.Get("/", handler.list)
		r.Patch("/{id}/status", handler.setStatus)
	})

	return router
}

type submitRequest struct {
	ServiceID string `json:"service_id"`
	Details   string `json:"details"`
}

type statusRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.desk.Submit(request.Context(), user, SubmitInput{
		ServiceID: input.ServiceID,
		Details:   input.Details,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	applications, err := handler.desk.ListMine(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, applications)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.desk.Get(request.Context(), user, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		Status:    requestutil.QueryString(request, "status", ""),
		ServiceID: requestutil.QueryString(request, "service_id", ""),
		Limit:     requestutil.QueryInt(request, "limit", 100),
		Offset:    requestutil.QueryInt(request, "offset", 0),
	}

	applications, err := handler.desk.ListAll(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, applications)
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.desk.SetStatus(request.Context(), requestutil.Param(request, "id"), input.Status, input.Remarks)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
