package complaint

import "context"

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(context context.Context, id string) (*Complaint, error)
	ListByUser(context context.Context, userID string) ([]*Complaint, error)
	List(context context.Context, filter ListFilter) ([]*Complaint, error)
	Create(context context.Context, complaint *Complaint) error
	UpdateStatus(context context.Context, id, status, resolution string) error
}
