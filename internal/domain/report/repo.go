package report

import "context"

// Repository is the upstream /reports resource.
type Repository interface {
	Billing(ctx context.Context, r Range) ([]BillingItem, error)
	Payments(ctx context.Context, r Range) (*PaymentSummary, error)
	Insurance(ctx context.Context, r Range) (*InsuranceSummary, error)
}
