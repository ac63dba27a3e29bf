package report

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
	g := api.Group("/reports", auth.RequireRole(session.RoleAdmin))
	g.GET("", h.All)
	g.GET("/billing", h.Billing)
	g.GET("/payments", h.Payments)
	g.GET("/insurance", h.Insurance)
}

func bindRange(c echo.Context) Range {
	return Range{From: c.QueryParam("from"), To: c.QueryParam("to")}
}

func (h *Handler) All(c echo.Context) error {
	b, err := h.svc.All(c.Request().Context(), bindRange(c))
	if err != nil {
		return err
	}
	resp := envelope.OK(b)
	if len(b.Errors) > 0 {
		resp = resp.WithNotice(envelope.Warning("Some report sections could not be loaded.").Titled("Partial report"))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Billing(c echo.Context) error {
	items, err := h.svc.Billing(c.Request().Context(), bindRange(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(items))
}

func (h *Handler) Payments(c echo.Context) error {
	sum, err := h.svc.Payments(c.Request().Context(), bindRange(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(sum))
}

func (h *Handler) Insurance(c echo.Context) error {
	sum, err := h.svc.Insurance(c.Request().Context(), bindRange(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(sum))
}
