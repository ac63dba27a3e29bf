package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists routes that must work without a session: health
// probes, login and the navigation guard itself (which answers "go to
// login" for anonymous callers).
var publicPaths = map[string]bool{
	"/healthz":         true,
	"/readyz":          true,
	"/api/auth/login":  true,
	"/api/auth/logout": true,
	"/api/nav":         true,
}

// SessionSkipper returns true for requests whose route needs no session.
// Pass it to RequireSession.
func SessionSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether path is reachable without a session.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
