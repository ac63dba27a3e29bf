package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/platform/session"
)

// AuditEntry records one state-changing request: who did what to which
// resource and how it ended.
type AuditEntry struct {
	RequestID  string
	Email      string
	Role       string
	Resource   string
	ResourceID string
	Action     string // create, update, delete
	Method     string
	Path       string
	StatusCode int
	IPAddress  string
	Timestamp  time.Time
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(ctx context.Context, entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(ctx context.Context, entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(ctx context.Context, entry AuditEntry) error {
	return f(ctx, entry)
}

// Audit logs every mutating /api/ request (bill generation, payments, user
// role changes and so on) after it completes. Reads are not audited. When a
// recorder is given the entry is also persisted; a recorder failure is
// logged and never fails the request.
func Audit(logger zerolog.Logger, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action := methodToAction(req.Method)
			if action == "" || !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(c)
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := AuditEntry{
				Action:     action,
				Method:     req.Method,
				Path:       req.URL.Path,
				StatusCode: c.Response().Status,
				IPAddress:  c.RealIP(),
				Timestamp:  time.Now().UTC(),
			}
			entry.Resource, entry.ResourceID = resourceFromPath(req.URL.Path)
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}
			if sess := session.FromContext(c.Request().Context()); sess != nil {
				entry.Email = sess.Email
				entry.Role = sess.Role
			}

			if recorder != nil {
				// The request context may already be cancelled.
				ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), 2*time.Second)
				if recErr := recorder.RecordAccess(ctx, entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
				cancel()
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("email", entry.Email).
				Str("role", entry.Role).
				Str("resource", entry.Resource).
				Str("resource_id", entry.ResourceID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("console_change")

			return nil
		}
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return ""
}

// resourceFromPath splits /api/<resource>[/<id>...] into resource and id.
// Nested groups such as /api/insurance/policies/7 report "insurance/policies".
//
//   - /api/patients          -> patients, ""
//   - /api/billing/12/pay    -> billing, 12
//   - /api/insurance/assign  -> insurance/assign, ""
func resourceFromPath(path string) (resource, id string) {
	segs := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/"), "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return "unknown", ""
	}
	resource = segs[0]
	for _, s := range segs[1:] {
		if isID(s) {
			return resource, s
		}
		resource += "/" + s
	}
	return resource, ""
}

func isID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' && (r < 'a' || r > 'f') {
			return false
		}
	}
	return strings.ContainsAny(s, "0123456789")
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresAuditRecorder writes entries to the console_audit table.
type PostgresAuditRecorder struct {
	db execer
}

func NewPostgresAuditRecorder(db execer) *PostgresAuditRecorder {
	return &PostgresAuditRecorder{db: db}
}

func (r *PostgresAuditRecorder) RecordAccess(ctx context.Context, e AuditEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO console_audit
		    (request_id, email, role, resource, resource_id, action, method, path, status, remote_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.RequestID, e.Email, e.Role, e.Resource, e.ResourceID, e.Action, e.Method, e.Path,
		e.StatusCode, e.IPAddress, e.Timestamp)
	return err
}
