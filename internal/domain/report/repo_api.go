package report

import (
	"context"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

type apiRepo struct {
	client *apiclient.Client
}

func NewAPIRepo(client *apiclient.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Billing(ctx context.Context, rg Range) ([]BillingItem, error) {
	var out []BillingItem
	if err := r.client.Get(ctx, "/reports/billing", rg.query(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []BillingItem{}
	}
	return out, nil
}

func (r *apiRepo) Payments(ctx context.Context, rg Range) (*PaymentSummary, error) {
	var out PaymentSummary
	if err := r.client.Get(ctx, "/reports/payments", rg.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Insurance(ctx context.Context, rg Range) (*InsuranceSummary, error) {
	var out InsuranceSummary
	if err := r.client.Get(ctx, "/reports/insurance", rg.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
