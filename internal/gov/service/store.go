package service

import "context"

type Repository interface {
	List(context context.Context, includeInactive bool) ([]*Service, error)
	GetBySlug(context context.Context, slug string) (*Service, error)
	GetByID(context context.Context, id string) (*Service, error)
	Create(context context.Context, service *Service) error
	Update(context context.Context, service *Service) error
	Delete(context context.Context, id string) error
}
