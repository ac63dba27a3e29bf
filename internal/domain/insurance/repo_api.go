package insurance

import (
	"context"
	"fmt"
	"net/url"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

type apiRepo struct {
	client *apiclient.Client
}

func NewAPIRepo(client *apiclient.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Providers(ctx context.Context) ([]Provider, error) {
	out := []Provider{}
	if err := r.client.Get(ctx, "/insurance/providers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Policies(ctx context.Context) ([]Policy, error) {
	return r.policies(ctx, "/insurance/policies")
}

func (r *apiRepo) Expiring(ctx context.Context) ([]Policy, error) {
	return r.policies(ctx, "/insurance/policies/expiring")
}

// ByPatient drops policies without a coverage amount; they cannot cover a
// bill.
func (r *apiRepo) ByPatient(ctx context.Context, patientID int64) ([]Policy, error) {
	all, err := r.policies(ctx, fmt.Sprintf("/insurance/policies/patient/%d", patientID))
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.CoverageAmount > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *apiRepo) policies(ctx context.Context, path string) ([]Policy, error) {
	var out []Policy
	if err := r.client.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Policy{}
	}
	return out, nil
}

func (r *apiRepo) Create(ctx context.Context, in PolicyInput) (*Policy, error) {
	var p Policy
	if err := r.client.Post(ctx, "/insurance/policies", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *apiRepo) Update(ctx context.Context, id string, in PolicyInput) (*Policy, error) {
	var p Policy
	if err := r.client.Put(ctx, "/insurance/policies/"+url.PathEscape(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *apiRepo) Deactivate(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/insurance/policies/"+url.PathEscape(id), nil)
}

func (r *apiRepo) Assign(ctx context.Context, req AssignRequest) error {
	return r.client.Post(ctx, "/insurance/assign", req, nil)
}
