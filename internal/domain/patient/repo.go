package patient

import "context"

// Repository is the upstream /patients resource.
type Repository interface {
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id int64) (*Patient, error)
	Create(ctx context.Context, in Input) (*Patient, error)
	Update(ctx context.Context, id int64, in Input) (*Patient, error)
	Delete(ctx context.Context, id int64) error
}
