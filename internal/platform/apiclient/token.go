package apiclient

import "context"

type contextKey string

const tokenKey contextKey = "upstream_token"

// WithToken returns a context whose outgoing upstream calls carry token as
// a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token attached by WithToken.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}
