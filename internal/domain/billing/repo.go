package billing

import (
	"context"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

// Repository is the upstream /billing resource.
type Repository interface {
	Generate(ctx context.Context, req GenerateRequest) (*Bill, error)
	List(ctx context.Context) ([]Bill, error)
	Get(ctx context.Context, id int64) (*Bill, error)
	DownloadInvoice(ctx context.Context, id int64) (*apiclient.Blob, error)
	EmailInvoice(ctx context.Context, id int64) error
}
