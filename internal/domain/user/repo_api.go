package user

import (
	"context"
	"net/url"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

type apiRepo struct {
	client *apiclient.Client
}

func NewAPIRepo(client *apiclient.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := r.client.Get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []User{}
	}
	for i := range out {
		out[i].Role = canonicalRole(out[i].Role)
	}
	return out, nil
}

func (r *apiRepo) Create(ctx context.Context, req CreateRequest) (*User, error) {
	var u User
	if err := r.client.Post(ctx, "/users", req, &u); err != nil {
		return nil, err
	}
	u.Role = canonicalRole(u.Role)
	return &u, nil
}

func (r *apiRepo) UpdateRole(ctx context.Context, id, role string) error {
	return r.client.Put(ctx, "/users/"+url.PathEscape(id)+"/role", RoleRequest{Role: role}, nil)
}

func (r *apiRepo) UpdateStatus(ctx context.Context, id string, active bool) error {
	return r.client.Put(ctx, "/users/"+url.PathEscape(id)+"/status", StatusRequest{IsActive: active}, nil)
}
