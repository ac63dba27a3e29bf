package catalog

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the catalog. Billing staff may read the active
// list to build bills; everything else is admin-only.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("/services", auth.RequireRole(session.RoleAdmin, session.RoleBilling))
	read.GET("/active", h.ListActive)

	admin := api.Group("/services", auth.RequireRole(session.RoleAdmin))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.PUT("/:id/status", h.SetStatus)
	admin.DELETE("/:id", h.Disable)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(items))
}

func (h *Handler) ListActive(c echo.Context) error {
	items, err := h.svc.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(items))
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	item, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.OK(item).WithNotice(envelope.Success("Service created")))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	item, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(item).WithNotice(envelope.Success("Service updated")))
}

type statusRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	item, err := h.svc.SetActive(c.Request().Context(), id, req.IsActive)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	if err != nil {
		return err
	}
	msg := "Service disabled"
	if item.IsActive {
		msg = "Service enabled"
	}
	return c.JSON(http.StatusOK, envelope.OK(item).WithNotice(envelope.Success(msg)))
}

func (h *Handler) Disable(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}
	if err := h.svc.Disable(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(envelope.Success("Service disabled")))
}
