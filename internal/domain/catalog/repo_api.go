package catalog

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

func (r *apiRepo) List(ctx context.Context) ([]Item, error) {
	var out []Item
	if err := r.client.Get(ctx, "/services", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Item{}
	}
	return out, nil
}

func (r *apiRepo) Create(ctx context.Context, item Item) (*Item, error) {
	var out Item
	if err := r.client.Post(ctx, "/services", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Update(ctx context.Context, id int64, item Item) (*Item, error) {
	var out Item
	if err := r.client.Put(ctx, fmt.Sprintf("/services/%d", id), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Disable(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, fmt.Sprintf("/services/%d", id), nil)
}
