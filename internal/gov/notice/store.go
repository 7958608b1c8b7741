package notice

import "context"

type Repository interface {
	List(context context.Context, limit, offset int) ([]*Notice, error)
	GetByID(context context.Context, id string) (*Notice, error)
	Create(context context.Context, notice *Notice) error
	Update(context context.Context, notice *Notice) error
	Delete(context context.Context, id string) error
}
