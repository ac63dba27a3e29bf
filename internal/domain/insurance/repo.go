package insurance

import "context"

// Repository is the upstream /insurance resource.
type Repository interface {
	Providers(ctx context.Context) ([]Provider, error)
	Policies(ctx context.Context) ([]Policy, error)
	Expiring(ctx context.Context) ([]Policy, error)
	ByPatient(ctx context.Context, patientID int64) ([]Policy, error)
	Create(ctx context.Context, in PolicyInput) (*Policy, error)
	Update(ctx context.Context, id string, in PolicyInput) (*Policy, error)
	Deactivate(ctx context.Context, id string) error
	Assign(ctx context.Context, req AssignRequest) error
}
