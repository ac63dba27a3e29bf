package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
	"github.com/medicare/billing-console/pkg/validate"
)

const (
	SessionExpiredMessage = "Your session has expired. Please log in again."
	validationMessage     = "Please correct the highlighted fields."
)

// Redirect is the data of a response that sends the browser elsewhere.
type Redirect struct {
	Redirect string `json:"redirect"`
}

// ErrorHandler is echo's HTTPErrorHandler. Every failure becomes an envelope
// with a notice. An upstream 401 also ends the console session so the
// browser lands on the login page.
func ErrorHandler(logger zerolog.Logger, sessions *session.Manager) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)

		if errors.Is(err, apiclient.ErrUnauthorized) {
			forceLogout(c, sessions, logger)
			status = http.StatusUnauthorized
			body = envelope.Envelope[any]{
				Success: false,
				Message: SessionExpiredMessage,
				Data:    Redirect{Redirect: "/login"},
				Notice:  envelope.Warning(SessionExpiredMessage).Titled("Session expired"),
			}
		}

		if status >= 500 {
			logger.Error().Err(err).
				Str("request_id", fmt.Sprintf("%v", c.Get("request_id"))).
				Int("status", status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}

// StatusFor maps an upstream error kind to the status the console returns.
func StatusFor(kind apiclient.Kind) int {
	switch kind {
	case apiclient.KindUnauthorized:
		return http.StatusUnauthorized
	case apiclient.KindForbidden:
		return http.StatusForbidden
	case apiclient.KindNotFound:
		return http.StatusNotFound
	case apiclient.KindBusiness:
		return http.StatusBadRequest
	case apiclient.KindTransport, apiclient.KindServer:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func classify(err error) (int, envelope.Envelope[any]) {
	var (
		verr    *validate.Errors
		apiErr  *apiclient.Error
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, envelope.Envelope[any]{
			Success: false,
			Message: validationMessage,
			Data:    verr,
			Notice:  envelope.Warning(validationMessage),
		}
	case errors.As(err, &apiErr):
		return StatusFor(apiErr.Kind), envelope.Fail(apiErr.Message)
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok && s != "" {
			msg = s
		}
		return httpErr.Code, envelope.Fail(msg)
	}
	return http.StatusInternalServerError, envelope.Fail(apiclient.FallbackMessage)
}

func forceLogout(c echo.Context, sessions *session.Manager, logger zerolog.Logger) {
	if sessions == nil {
		return
	}
	ctx := c.Request().Context()
	if sess := session.FromContext(ctx); sess != nil {
		if err := sessions.Destroy(ctx, sess.ID); err != nil {
			logger.Warn().Err(err).Msg("destroy expired session")
		}
		logger.Info().Str("role", sess.Role).Msg("upstream rejected token, session ended")
	}
	c.SetCookie(sessions.ClearCookie())
}
