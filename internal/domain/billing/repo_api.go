package billing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

// getRetries is how many extra attempts a bill read gets.
const getRetries = 2

type apiRepo struct {
	client *apiclient.Client
}

func NewAPIRepo(client *apiclient.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Generate(ctx context.Context, req GenerateRequest) (*Bill, error) {
	var b Bill
	if err := r.client.Post(ctx, "/billing", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *apiRepo) List(ctx context.Context) ([]Bill, error) {
	var out []Bill
	if err := r.client.Get(ctx, "/billing", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Bill{}
	}
	return out, nil
}

// Get is the only read that is retried; it backs the bill detail page which
// is often opened right after generation.
func (r *apiRepo) Get(ctx context.Context, id int64) (*Bill, error) {
	var b Bill
	err := apiclient.Retry(ctx, getRetries, func() error {
		b = Bill{}
		return r.client.Get(ctx, fmt.Sprintf("/billing/%d", id), nil, &b)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *apiRepo) DownloadInvoice(ctx context.Context, id int64) (*apiclient.Blob, error) {
	return r.client.DoRaw(ctx, http.MethodGet, fmt.Sprintf("/billing/%d/invoice", id))
}

func (r *apiRepo) EmailInvoice(ctx context.Context, id int64) error {
	return r.client.Post(ctx, fmt.Sprintf("/billing/%d/email-invoice", id), struct{}{}, nil)
}
