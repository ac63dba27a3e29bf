package payment

import (
	"context"
	"fmt"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

type apiRepo struct {
	client *apiclient.Client
}

func NewAPIRepo(client *apiclient.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Record(ctx context.Context, req Request) (*Response, error) {
	var out Response
	if err := r.client.Post(ctx, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Get(ctx context.Context, id int64) (*Payment, error) {
	var out Payment
	if err := r.client.Get(ctx, fmt.Sprintf("/payments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) ByBill(ctx context.Context, billID int64) ([]Payment, error) {
	return r.list(ctx, fmt.Sprintf("/payments/bill/%d", billID))
}

func (r *apiRepo) List(ctx context.Context) ([]Payment, error) {
	return r.list(ctx, "/payments")
}

func (r *apiRepo) list(ctx context.Context, path string) ([]Payment, error) {
	var out []Payment
	if err := r.client.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Payment{}
	}
	return out, nil
}
