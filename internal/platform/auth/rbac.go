package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
)

const (
	msgLoginRequired = "Please log in to continue."
	msgForbidden     = "You do not have permission to access this resource."
)

// RequireSession rejects requests without a session with a 401 envelope.
// Requests matched by skipper pass through untouched.
func RequireSession(skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}
			if session.FromContext(c.Request().Context()) == nil {
				return c.JSON(http.StatusUnauthorized, envelope.Fail(msgLoginRequired))
			}
			return next(c)
		}
	}
}

// RequireRole returns middleware that checks the session's role against an
// allow-list with the same predicate the page guards use.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c.Request().Context())
			role := ""
			if sess != nil {
				role = sess.Role
			}
			switch Decide(role, sess != nil, roles) {
			case RedirectLogin:
				return c.JSON(http.StatusUnauthorized, envelope.Fail(msgLoginRequired))
			case RedirectUnauthorized:
				return c.JSON(http.StatusForbidden,
					envelope.Fail(msgForbidden).WithNotice(
						envelope.Error("Required role: "+strings.Join(roles, " or ")).Titled("Access denied")))
			}
			return next(c)
		}
	}
}
