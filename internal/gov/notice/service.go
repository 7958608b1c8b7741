package notice

import (
	"context"
	"log/slog"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

// Board manages the public announcement feed.
type Board struct {
	repo   Repository
	logger *slog.Logger
}

func NewBoard(repo Repository, logger *slog.Logger) *Board {
	return &Board{repo: repo, logger: logger}
}

func (board *Board) List(context context.Context, limit, offset int) ([]*Notice, error) {
	return board.repo.List(context, limit, offset)
}

func (board *Board) Get(context context.Context, id string) (*Notice, error) {
	return board.repo.GetByID(context, id)
}

// PostInput holds a new announcement.
type PostInput struct {
	Title string
	Body  string
}

// Post publishes an announcement attributed to the acting moderator.
func (board *Board) Post(context context.Context, actor *auth.User, input PostInput) (*Notice, error) {
	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		Required("body", input.Body)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Notice{
		Title:    input.Title,
		Body:     input.Body,
		PostedBy: actor.ID,
	}

	if err := board.repo.Create(context, entry); err != nil {
		return nil, err
	}

	board.logger.Info("notice_posted", slog.String("notice_id", entry.ID))
	return entry, nil
}

// UpdateInput holds the editable fields. Nil means unchanged.
type UpdateInput struct {
	Title *string
	Body  *string
}

func (board *Board) Update(context context.Context, id string, input UpdateInput) (*Notice, error) {
	entry, err := board.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entry.Title = *input.Title
	}
	if input.Body != nil {
		entry.Body = *input.Body
	}

	validator := &validate.Validator{}
	validator.Required("title", entry.Title).
		MaxLen("title", entry.Title, 200).
		Required("body", entry.Body)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := board.repo.Update(context, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (board *Board) Delete(context context.Context, id string) error {
	if _, err := board.repo.GetByID(context, id); err != nil {
		return err
	}
	return board.repo.Delete(context, id)
}
