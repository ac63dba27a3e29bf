package account

import (
	"context"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

// Authenticator exchanges credentials for an upstream bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)
}

type apiAuthenticator struct {
	client *apiclient.Client
}

func NewAPIAuthenticator(client *apiclient.Client) Authenticator {
	return &apiAuthenticator{client: client}
}

func (a *apiAuthenticator) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := a.client.Post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
