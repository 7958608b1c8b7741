package application

import "context"

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status    string
	ServiceID string
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(context context.Context, id string) (*Application, error)
	ListByUser(context context.Context, userID string) ([]*Application, error)
	List(context context.Context, filter ListFilter) ([]*Application, error)
	Create(context context.Context, application *Application) error
	UpdateStatus(context context.Context, id, status, remarks string) error
}
