package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medicare/billing-console/pkg/envelope"
)

const timeoutMessage = "The server took too long to respond. Please try again."

// RequestTimeout puts a deadline on the request context. Every upstream call
// runs on that context, so a slow billing API is cut off and the handler
// returns early. Whatever it returned is then replaced by a 504 envelope,
// unless it already wrote a response. A zero timeout disables the deadline.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if timeout <= 0 {
			return next
		}
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Response().Committed {
				return gatewayTimeout(c)
			}
			return err
		}
	}
}

func gatewayTimeout(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout,
		envelope.Fail(timeoutMessage).WithNotice(envelope.Error(timeoutMessage).Titled("Timeout")))
}
