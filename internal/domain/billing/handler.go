package billing

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/envelope"
	"github.com/medicare/billing-console/pkg/pagination"
)

// Handler serves the bill builder and bill history.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/billing", auth.RequireRole(session.RoleAdmin, session.RoleBilling))
	g.GET("", h.List)
	g.POST("", h.Generate)
	g.POST("/preview", h.Preview)
	g.GET("/:id", h.Get)
	g.GET("/:id/invoice", h.DownloadInvoice)
	g.POST("/:id/email-invoice", h.EmailInvoice)
	g.POST("/:id/pay", h.Pay)
}

func billID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid bill id")
	}
	return id, nil
}

func incomplete(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, envelope.Envelope[any]{
		Success: false,
		Message: IncompleteMessage,
		Notice:  envelope.Warning(IncompleteMessage).Titled("Incomplete Information"),
	})
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(pagination.NewResponse(rows, total, p.Limit, p.Offset)))
}

func (h *Handler) Preview(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.svc.Preview(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(view))
}

func (h *Handler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	out, err := h.svc.Generate(c.Request().Context(), req)
	if errors.Is(err, ErrIncomplete) {
		return incomplete(c)
	}
	if err != nil {
		return err
	}
	msg := "Bill generated successfully!"
	if out.Bill.InvoiceNumber != "" {
		msg = "Bill generated successfully! Invoice: " + out.Bill.InvoiceNumber
	}
	return c.JSON(http.StatusCreated, envelope.OK(out).WithNotice(envelope.Success(msg)))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := billID(c)
	if err != nil {
		return err
	}
	bill, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK(bill))
}

// DownloadInvoice streams the upstream PDF as an attachment.
func (h *Handler) DownloadInvoice(c echo.Context) error {
	id, err := billID(c)
	if err != nil {
		return err
	}
	blob, err := h.svc.DownloadInvoice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", InvoiceFilename(id)))
	return c.Blob(http.StatusOK, blob.ContentType, blob.Data)
}

// InvoiceFilename is the download name of a bill's invoice.
func InvoiceFilename(id int64) string {
	return fmt.Sprintf("Invoice_%d.pdf", id)
}

func (h *Handler) EmailInvoice(c echo.Context) error {
	id, err := billID(c)
	if err != nil {
		return err
	}
	if err := h.svc.EmailInvoice(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.OK[any](nil).WithNotice(
		envelope.Success("Invoice has been sent to the patient's registered email.").Titled("Email Sent")))
}

func (h *Handler) Pay(c echo.Context) error {
	id, err := billID(c)
	if err != nil {
		return err
	}
	var req PayRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}
	res, err := h.svc.Pay(c.Request().Context(), id, req.PaymentMode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.OK(res).WithNotice(envelope.Success("Payment Successful!")))
}
