package payment

import "context"

// Repository is the upstream /payments resource. Its bodies are bare
// objects, not envelopes.
type Repository interface {
	Record(ctx context.Context, req Request) (*Response, error)
	Get(ctx context.Context, id int64) (*Payment, error)
	ByBill(ctx context.Context, billID int64) ([]Payment, error)
	List(ctx context.Context) ([]Payment, error)
}
