package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/pkg/envelope"
)

const (
	maxHeaderValueSize = 8 << 10
	rejectedTitle      = "Request rejected"
)

var (
	// Logged only; patient names and search terms may legitimately match.
	sqlPatterns = regexp.MustCompile(`(?i)('+\s*;\s*DROP\b|UNION\s+SELECT\b|'\s+OR\s+1\s*=\s*1)`)

	scriptPatterns = regexp.MustCompile(`(?i)(<script|javascript\s*:|\bon\w+\s*=)`)
)

// pathQueryKeys are query parameters that carry a console path (the nav
// guard's ?path=) and get the same traversal checks as the URL path.
var pathQueryKeys = map[string]bool{"path": true}

// Sanitize rejects requests whose path, route parameters, headers or query
// carry traversal sequences, null bytes, header injection or script markup.
// Route ids end up in upstream URLs, so they are held to the path rules.
// Rejections are a 400 envelope.
func Sanitize(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			rawPath := req.URL.RawPath
			if rawPath == "" {
				rawPath = path
			}

			reject := func(reason, msg string) error {
				logger.Warn().
					Str("request_id", fmt.Sprintf("%v", c.Get("request_id"))).
					Str("path", path).
					Str("remote_ip", c.RealIP()).
					Str("reason", reason).
					Msg("request rejected by sanitizer")
				return c.JSON(http.StatusBadRequest,
					envelope.Fail(msg).WithNotice(envelope.Error(msg).Titled(rejectedTitle)))
			}

			if containsPathTraversal(path) || containsPathTraversal(rawPath) {
				return reject("path_traversal", "Invalid request path.")
			}
			if containsNullByte(path) || containsNullByte(rawPath) {
				return reject("null_byte", "Invalid request path.")
			}

			values := c.ParamValues()
			for i, name := range c.ParamNames() {
				if name == "*" || i >= len(values) {
					continue
				}
				v := values[i]
				if containsPathTraversal(v) || containsNullByte(v) || hasSeparator(v) {
					return reject("route_param", "Invalid identifier in request path.")
				}
			}

			for name, values := range req.Header {
				for _, v := range values {
					if len(v) > maxHeaderValueSize {
						return reject("header_size", "Request header too large: "+name)
					}
					if strings.ContainsAny(v, "\r\n") {
						return reject("header_injection", "Invalid request header: "+name)
					}
				}
			}

			for key, values := range req.URL.Query() {
				for _, v := range values {
					if containsNullByte(v) || containsNullByte(key) {
						return reject("null_byte", "Invalid query parameter.")
					}
					if pathQueryKeys[key] && containsPathTraversal(v) {
						return reject("path_traversal", "Invalid query parameter.")
					}
					if scriptPatterns.MatchString(v) || scriptPatterns.MatchString(key) {
						return reject("script", "Invalid query parameter.")
					}
					if sqlPatterns.MatchString(v) {
						logger.Warn().
							Str("param", key).
							Str("path", path).
							Str("remote_ip", c.RealIP()).
							Msg("potential SQL injection pattern in query parameter")
					}
				}
			}

			return next(c)
		}
	}
}

// containsPathTraversal checks raw, percent-encoded and double-encoded "..".
func containsPathTraversal(s string) bool {
	if strings.Contains(s, "..") {
		return true
	}
	lower := strings.ToLower(s)
	return strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%252e")
}

// hasSeparator reports a literal or escaped path separator. echo may hand a
// param over still escaped, so both forms count.
func hasSeparator(s string) bool {
	lower := strings.ToLower(s)
	return strings.ContainsAny(s, "/\\") || strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c")
}

func containsNullByte(s string) bool {
	return strings.ContainsRune(s, '\x00') || strings.Contains(strings.ToLower(s), "%00")
}
