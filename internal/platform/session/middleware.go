package session

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

type ctxKey struct{}

// NewContext returns a context carrying sess and its upstream token.
func NewContext(ctx context.Context, sess *Session) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, sess)
	return apiclient.WithToken(ctx, sess.Token)
}

// FromContext returns the session on ctx, or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}

// Middleware attaches the request's session, if any, to the request
// context. It never rejects a request; guards decide what a missing session
// means.
func Middleware(m *Manager, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess, err := m.Load(req.Context(), req)
			switch {
			case err == nil:
				c.SetRequest(req.WithContext(NewContext(req.Context(), sess)))
			case errors.Is(err, ErrNotFound):
			default:
				logger.Warn().Err(err).Msg("session lookup failed")
			}
			return next(c)
		}
	}
}
