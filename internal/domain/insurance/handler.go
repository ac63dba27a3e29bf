package insurance

import (
	"fmt"
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

// RegisterRoutes mounts /insurance. Billing staff may look up a patient's
// policies to price a bill; the rest is for Admin and Insurance.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	lookup := api.Group("/insurance", auth.RequireRole(session.Roles...))
	lookup.GET("/policies/patient/:id", h.ByPatient)

	g := api.Group("/insurance", auth.RequireRole(session.RoleAdmin, session.RoleInsurance))
	g.GET("/providers", h.Providers)
	g.GET("/policies", h.Policies)
	g.GET("/policies/expiring", h.Expiring)
	g.POST("/policies", h.Create)
	g.PUT("/policies/:id", h.Update)
	g.DELETE("/policies/:id", h.Deactivate)
	g.POST("/assign", h.Assign)
}

func forceRefresh(c echo.Context) bool {
	v, _ := strconv.ParseBool(c.QueryParam("refresh"))
	return v
}

func (h *Handler) Providers(c echo.Context) error {
	providers, err := h.svc.Providers(c.Request().Context(), forceRefresh(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(providers))
}

// Policies returns the list page. When any policy expires within the
// window the response carries a warning notice.
func (h *Handler) Policies(c echo.Context) error {
	status := c.QueryParam("status")
	if !ValidStatusFilter(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	ov, err := h.svc.Overview(c.Request().Context(), c.QueryParam("search"), status, forceRefresh(c))
	if err != nil {
		return err
	}
	resp := envelope.OK(ov)
	if ov.Counts.Expiring > 0 {
		resp = resp.WithNotice(envelope.Warning(
			fmt.Sprintf("%d policy(ies) expiring within %d days!", ov.Counts.Expiring, ExpiryWindowDays)).
			Titled("Expiring policies"))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Expiring(c echo.Context) error {
	policies, err := h.svc.Expiring(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(policies))
}

func (h *Handler) ByPatient(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	policies, err := h.svc.ByPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(policies))
}

func (h *Handler) Create(c echo.Context) error {
	var in PolicyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.OK(p).WithNotice(envelope.Success("Policy created")))
}

func (h *Handler) Update(c echo.Context) error {
	var in PolicyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(p).WithNotice(envelope.Success("Policy updated")))
}

func (h *Handler) Deactivate(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(envelope.Success("Policy deactivated")))
}

func (h *Handler) Assign(c echo.Context) error {
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Assign(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(envelope.Success("Policy assigned to patient")))
}
