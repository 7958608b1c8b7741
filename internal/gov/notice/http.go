package notice

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

// Routes exposes the feed. Reads are public, publishing requires a
// moderator or above.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(handler.resolver))
		r.Use(auth.Require(auth.RequireModerator))
		r.Post("/", handler.post)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type updateNoticeRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	limit := requestutil.QueryInt(request, "limit", 100)
	offset := requestutil.QueryInt(request, "offset", 0)

	notices, err := handler.board.List(request.Context(), limit, offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, notices)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.board.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) post(writer http.ResponseWriter, request *http.Request) {
	actor, err := auth.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.board.Post(request.Context(), actor, PostInput{
		Title: input.Title,
		Body:  input.Body,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateNoticeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.board.Update(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Title: input.Title,
		Body:  input.Body,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.board.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
