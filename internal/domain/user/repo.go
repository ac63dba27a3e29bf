package user

import "context"

// Repository is the upstream /users resource.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, req CreateRequest) (*User, error)
	UpdateRole(ctx context.Context, id, role string) error
	UpdateStatus(ctx context.Context, id string, active bool) error
}
