package catalog

import "context"

// Repository is the upstream /services resource. Delete is a soft-disable.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item Item) (*Item, error)
	Update(ctx context.Context, id int64, item Item) (*Item, error)
	Disable(ctx context.Context, id int64) error
}
