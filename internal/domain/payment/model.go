package payment

import (
	"github.com/medicare/billing-console/pkg/validate"
)

// Modes accepted by the cashier desk.
const (
	ModeCash = "Cash"
	ModeUPI  = "UPI"
	ModeCard = "Card"
)

var Modes = []string{ModeCash, ModeUPI, ModeCard}

// Request records a payment against a bill. A bill may be paid in parts.
type Request struct {
	BillID      int64   `json:"billId"`
	PaidAmount  float64 `json:"paidAmount"`
	PaymentMode string  `json:"paymentMode"`
}

func (r Request) Validate() error {
	var v validate.Errors
	if r.BillID <= 0 {
		v.Add("billId", "is required")
	}
	if r.PaidAmount <= 0 {
		v.Add("paidAmount", "must be greater than 0")
	}
	v.OneOf("paymentMode", r.PaymentMode, Modes...)
	return v.Err()
}

// Response is what upstream answers after recording a payment. Status and
// the running total are authoritative.
type Response struct {
	BillID    int64   `json:"billId"`
	Status    string  `json:"status"`
	TotalPaid float64 `json:"totalPaid"`
}

// Payment is one recorded payment as listed by upstream.
type Payment struct {
	PaymentID   int64   `json:"paymentId"`
	BillID      int64   `json:"billId"`
	PaidAmount  float64 `json:"paidAmount"`
	PaymentMode string  `json:"paymentMode"`
	Status      string  `json:"status,omitempty"`
	PaidAt      string  `json:"paidAt,omitempty"`
}

// Total sums the paid amounts.
func Total(payments []Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.PaidAmount
	}
	return sum
}
