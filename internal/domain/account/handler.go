package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
)

const (
	msgInvalidLogin = "Invalid email or password"
	msgLoginFailed  = "Login failed. Please try again."
	homePath        = "/dashboard"
)

// Handler owns the console session lifecycle: login, logout, the current
// profile and the navigation guard.
type Handler struct {
	auth     Authenticator
	sessions *session.Manager
	logger   zerolog.Logger
}

func NewHandler(a Authenticator, sessions *session.Manager, logger zerolog.Logger) *Handler {
	return &Handler{auth: a, sessions: sessions, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)
	api.GET("/nav", h.Nav)
}

func profileOf(sess *session.Session) Profile {
	return Profile{
		Email:       sess.Email,
		Role:        sess.Role,
		IsAdmin:     sess.IsAdmin(),
		IsBilling:   sess.IsBilling(),
		IsInsurance: sess.IsInsurance(),
		Menu:        auth.Menu(sess.Role),
		ExpiresAt:   sess.ExpiresAt,
	}
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	resp, err := h.auth.Login(ctx, creds)
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized), apiclient.KindOf(err) == apiclient.KindBusiness:
		// A rejected login is not an expired session; answer it here so the
		// error handler does not force a logout.
		msg := apiclient.MessageOf(err, msgInvalidLogin)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			msg = msgInvalidLogin
		}
		return c.JSON(http.StatusUnauthorized, envelope.Fail(msg))
	case err != nil:
		return err
	case resp.Token == "":
		h.logger.Warn().Str("email", creds.Email).Msg("login succeeded without a token")
		return c.JSON(http.StatusBadGateway, envelope.Fail(msgLoginFailed))
	}

	sess, cookie, err := h.sessions.Create(ctx, resp.Token, resp.Role, creds.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("create session")
		return c.JSON(http.StatusBadGateway, envelope.Fail(msgLoginFailed))
	}
	c.SetCookie(cookie)
	h.logger.Info().Str("email", sess.Email).Str("role", sess.Role).Msg("login")

	p := profileOf(sess)
	p.Redirect = homePath
	return c.JSON(http.StatusOK, envelope.OK(p).WithNotice(envelope.Success("Login successful")))
}

// Logout always clears the cookie, with or without a live session.
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if sess, err := h.sessions.Load(ctx, c.Request()); err == nil {
		if err := h.sessions.Destroy(ctx, sess.ID); err != nil {
			h.logger.Warn().Err(err).Msg("destroy session")
		}
	}
	c.SetCookie(h.sessions.ClearCookie())
	return c.JSON(http.StatusOK, envelope.OK(map[string]string{"redirect": auth.LoginPath}).
		WithNotice(envelope.Info("You have been logged out")))
}

func (h *Handler) Me(c echo.Context) error {
	sess := session.FromContext(c.Request().Context())
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue.")
	}
	return c.JSON(http.StatusOK, envelope.OK(profileOf(sess)))
}

// Nav answers the browser router's guard question for ?path=.
func (h *Handler) Nav(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}
	return c.JSON(http.StatusOK, envelope.OK(auth.Navigate(session.FromContext(c.Request().Context()), path)))
}
