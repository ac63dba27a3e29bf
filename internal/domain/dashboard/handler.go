package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard", auth.RequireRole(session.Roles...))
	g.GET("", h.Stats)
}

func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, envelope.OK(h.svc.Stats(ctx, session.FromContext(ctx))))
}
