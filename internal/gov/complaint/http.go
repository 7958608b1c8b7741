package complaint

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janasewa/janasewa/internal/iam/auth"
	requestutil "github.com/janasewa/janasewa/internal/platform/request"
	"github.com/janasewa/janasewa/internal/platform/respond"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

type Handler struct {
	board    *Board
	resolver *auth.Resolver
}

func NewHandler(board *Board, resolver *auth.Resolver) *Handler {
	return &Handler{board: board, resolver: resolver}
}

// Routes requires authentication throughout. The triage console requires a
// moderator or above.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireAuth(handler.resolver))

	router.Post("/", handler.file)
	router.Get("/mine", handler.listMine)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RequireModerator))
		r.Get("/", handler.list)
		r.Patch("/{id}/status", handler.setStatus)
	})

	return router
}

type fileRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type statusRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

func (handler *Handler) file(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input fileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.board.File(request.Context(), user, FileInput{
		Subject: input.Subject,
		Body:    input.Body,
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

	complaints, err := handler.board.ListMine(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, complaints)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.board.Get(request.Context(), user, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		Status: requestutil.QueryString(request, "status", ""),
		Limit:  requestutil.QueryInt(request, "limit", 100),
		Offset: requestutil.QueryInt(request, "offset", 0),
	}

	complaints, err := handler.board.ListAll(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, complaints)
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.board.SetStatus(request.Context(), requestutil.Param(request, "id"), input.Status, input.Resolution)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
