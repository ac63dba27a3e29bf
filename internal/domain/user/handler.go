package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
)

// Handler serves user administration. Admin only.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/users", auth.RequireRole(session.RoleAdmin))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id/role", h.UpdateRole)
	g.PUT("/:id/status", h.UpdateStatus)
}

func (h *Handler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(users))
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.OK(u).WithNotice(envelope.Success("User created")))
}

func (h *Handler) UpdateRole(c echo.Context) error {
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateRole(c.Request().Context(), c.Param("id"), req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(envelope.Success("User role updated")))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.IsActive); err != nil {
		return err
	}
	msg := "User deactivated"
	if req.IsActive {
		msg = "User activated"
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(envelope.Success(msg)))
}
