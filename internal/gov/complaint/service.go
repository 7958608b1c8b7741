package complaint

import (
	"context"
	"log/slog"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

// Board triages citizen complaints.
type Board struct {
	repo   Repository
	logger *slog.Logger
}

func NewBoard(repo Repository, logger *slog.Logger) *Board {
	return &Board{repo: repo, logger: logger}
}

// FileInput holds a new grievance.
type FileInput struct {
	Subject string
	Body    string
}

// File registers a complaint from the given user.
func (board *Board) File(context context.Context, user *auth.User, input FileInput) (*Complaint, error) {
	validator := &validate.Validator{}
	validator.Required("subject", input.Subject).
		MaxLen("subject", input.Subject, 200).
		Required("body", input.Body)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Complaint{
		UserID:  user.ID,
		Subject: input.Subject,
		Body:    input.Body,
		Status:  StatusOpen,
	}

	if err := board.repo.Create(context, entry); err != nil {
		return nil, err
	}

	board.logger.Info("complaint_filed", slog.String("complaint_id", entry.ID))
	return entry, nil
}

// ListMine returns the user's own complaints, newest first.
func (board *Board) ListMine(context context.Context, user *auth.User) ([]*Complaint, error) {
	return board.repo.ListByUser(context, user.ID)
}

// Get returns one complaint. Citizens may only read their own, moderators
// and above may read any.
func (board *Board) Get(context context.Context, actor *auth.User, id string) (*Complaint, error) {
	entry, err := board.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != actor.ID && !actor.CheckIsAdmin() && !actor.HasRole(auth.RoleModerator) {
		return nil, apperr.Forbidden("You do not have access to this complaint")
	}
	return entry, nil
}

// ListAll returns complaints for the triage console.
func (board *Board) ListAll(context context.Context, filter ListFilter) ([]*Complaint, error) {
	return board.repo.List(context, filter)
}

// SetStatus moves a complaint to a new triage state.
func (board *Board) SetStatus(context context.Context, id, status, resolution string) (*Complaint, error) {
	if !ValidStatus(status) {
		return nil, apperr.ValidationError("Invalid status. Must be one of: open, in_progress, resolved")
	}

	if err := board.repo.UpdateStatus(context, id, status, resolution); err != nil {
		return nil, err
	}

	board.logger.Info("complaint_status_changed",
		slog.String("complaint_id", id),
		slog.String("status", status),
	)
	return board.repo.GetByID(context, id)
}
