package billing

import (
	"errors"

	"github.com/medicare/billing-console/internal/domain/payment"
)

// IncompleteMessage is the warning shown when ErrIncomplete is returned.
const IncompleteMessage = "Please select a patient and at least one service"

var (
	// ErrIncomplete means the draft cannot be submitted yet.
	ErrIncomplete       = errors.New("bill is incomplete")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrUnknownService   = errors.New("service is not in the catalog")
)

// LineItem is one selected service and how many units of it.
type LineItem struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// Line is a priced line of a preview.
type Line struct {
	ServiceID int64   `json:"serviceId"`
	Name      string  `json:"serviceName"`
	UnitCost  float64 `json:"unitCost"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
}

// Preview is the client-side estimate shown while a bill is built. After
// submission its amounts are replaced by the server's. The upstream bill
// carries totals only, so Lines stay as the order that was submitted; their
// unit costs are catalog prices, and LinesRepriced reports that the server's
// gross no longer matches them.
type Preview struct {
	Lines              []Line  `json:"lines"`
	LinesRepriced      bool    `json:"linesRepriced,omitempty"`
	GrossAmount        float64 `json:"grossAmount"`
	CoveragePercentage float64 `json:"coveragePercentage"`
	InsuranceAmount    float64 `json:"insuranceAmount"`
	NetPayable         float64 `json:"netPayable"`
	InvoiceNumber      string  `json:"invoiceNumber,omitempty"`
}

// Bill is the upstream bill. Some endpoints send id instead of billId.
type Bill struct {
	BillID              int64    `json:"billId"`
	ID                  int64    `json:"id,omitempty"`
	PatientID           int64    `json:"patientId"`
	GrossAmount         float64  `json:"grossAmount"`
	InsuranceAmount     float64  `json:"insuranceAmount"`
	NetPayable          float64  `json:"netPayable"`
	InvoiceNumber       string   `json:"invoiceNumber"`
	Status              string   `json:"status,omitempty"`
	InsurancePercentage *float64 `json:"insurancePercentage,omitempty"`
	CreatedAt           string   `json:"createdAt,omitempty"`
}

// Key returns whichever id the upstream filled in.
func (b Bill) Key() int64 {
	if b.BillID != 0 {
		return b.BillID
	}
	return b.ID
}

// GenerateRequest is the upstream body for creating a bill.
type GenerateRequest struct {
	PatientID int64      `json:"patientId"`
	Services  []LineItem `json:"services"`
}

// Outcome is a generated bill together with the preview re-stated from the
// server's figures.
type Outcome struct {
	Bill    Bill    `json:"bill"`
	Preview Preview `json:"preview"`
}

// PayRequest settles a bill's net payable in one go.
type PayRequest struct {
	PaymentMode string `json:"paymentMode"`
}

// PayResult is the outcome of paying a bill from the builder.
type PayResult struct {
	Bill    Bill             `json:"bill"`
	Payment payment.Response `json:"payment"`
}
