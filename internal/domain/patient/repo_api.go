package patient

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

func (r *apiRepo) List(ctx context.Context) ([]Patient, error) {
	var out []Patient
	if err := r.client.Get(ctx, "/patients", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Patient{}
	}
	return out, nil
}

func (r *apiRepo) Get(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	if err := r.client.Get(ctx, fmt.Sprintf("/patients/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *apiRepo) Create(ctx context.Context, in Input) (*Patient, error) {
	var p Patient
	if err := r.client.Post(ctx, "/patients", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *apiRepo) Update(ctx context.Context, id int64, in Input) (*Patient, error) {
	var p Patient
	if err := r.client.Put(ctx, fmt.Sprintf("/patients/%d", id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *apiRepo) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, fmt.Sprintf("/patients/%d", id), nil)
}
