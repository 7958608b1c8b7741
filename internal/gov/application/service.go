package application

import (
	"context"
	"log/slog"

	"github.com/janasewa/janasewa/internal/gov/service"
	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/validate"
)

// Desk processes citizen applications.
type Desk struct {
	repo    Repository
	catalog service.Repository
	logger  *slog.Logger
}

func NewDesk(repo Repository, catalog service.Repository, logger *slog.Logger) *Desk {
	return &Desk{repo: repo, catalog: catalog, logger: logger}
}

// SubmitInput holds a new submission.
type SubmitInput struct {
	ServiceID string
	Details   string
}

// Submit files an application for the given user. The target service must
// exist and still be accepting applications.
func (desk *Desk) Submit(context context.Context, user *auth.User, input SubmitInput) (*Application, error) {
	validator := &validate.Validator{}
	validator.Required("service_id", input.ServiceID).
		UUID("service_id", input.ServiceID).
		Required("details", input.Details)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, err := desk.catalog.GetByID(context, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, apperr.ValidationError("This service is no longer accepting applications")
	}

	entry := &Application{
		UserID:    user.ID,
		ServiceID: target.ID,
		Details:   input.Details,
		Status:    StatusPending,
	}

	if err := desk.repo.Create(context, entry); err != nil {
		return nil, err
	}

	desk.logger.Info("application_submitted",
		slog.String("application_id", entry.ID),
		slog.String("service", target.Slug),
	)
	return entry, nil
}

// ListMine returns the user's own submissions, newest first.
func (desk *Desk) ListMine(context context.Context, user *auth.User) ([]*Application, error) {
	return desk.repo.ListByUser(context, user.ID)
}

// Get returns one application. Citizens may only read their own, officers
// (admin or superadmin) may read any.
func (desk *Desk) Get(context context.Context, actor *auth.User, id string) (*Application, error) {
	entry, err := desk.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != actor.ID && !actor.CheckIsAdmin() {
		return nil, apperr.Forbidden("You do not have access to this application")
	}
	return entry, nil
}

// ListAll returns applications for the review console.
func (desk *Desk) ListAll(context context.Context, filter ListFilter) ([]*Application, error) {
	return desk.repo.List(context, filter)
}

// SetStatus moves an application to a new review state.
func (desk *Desk) SetStatus(context context.Context, id, status, remarks string) (*Application, error) {
	if !ValidStatus(status) {
		return nil, apperr.ValidationError("Invalid status. Must be one of: pending, processing, approved, rejected")
	}

	if err := desk.repo.UpdateStatus(context, id, status, remarks); err != nil {
		return nil, err
	}

	desk.logger.Info("application_status_changed",
		slog.String("application_id", id),
		slog.String("status", status),
	)
	return desk.repo.GetByID(context, id)
}
