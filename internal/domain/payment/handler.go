package payment

import (
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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/payments", auth.RequireRole(session.RoleAdmin, session.RoleBilling))
	g.GET("", h.List)
	g.POST("", h.Record)
	g.GET("/:id", h.Get)
	g.GET("/bill/:billId", h.ByBill)
}

// BillPayments is the payment history of one bill.
type BillPayments struct {
	BillID    int64     `json:"billId"`
	Payments  []Payment `json:"payments"`
	TotalPaid float64   `json:"totalPaid"`
}

func (h *Handler) List(c echo.Context) error {
	payments, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(payments))
}

func (h *Handler) Record(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Record(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.OK(resp).WithNotice(envelope.Success("Payment recorded")))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(p))
}

func (h *Handler) ByBill(c echo.Context) error {
	billID, err := strconv.ParseInt(c.Param("billId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bill id")
	}
	payments, err := h.svc.ByBill(c.Request().Context(), billID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(BillPayments{BillID: billID, Payments: payments, TotalPaid: Total(payments)}))
}
