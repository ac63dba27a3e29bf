package report

import (
	"net/url"
	"strings"
	"time"

	"github.com/medicare/billing-console/pkg/dates"
	"github.com/medicare/billing-console/pkg/validate"
)

// Range is an inclusive reporting window of ISO dates.
type Range struct {
	From string `json:"from" query:"from"`
	To   string `json:"to" query:"to"`
}

func (r Range) Validate() error {
	var v validate.Errors
	from, fromOK := parseDate(&v, "from", r.From)
	to, toOK := parseDate(&v, "to", r.To)
	if fromOK && toOK && from.After(to) {
		v.Add("to", "must be on or after from")
	}
	return v.Err()
}

func (r Range) query() url.Values {
	return url.Values{"from": {strings.TrimSpace(r.From)}, "to": {strings.TrimSpace(r.To)}}
}

func parseDate(v *validate.Errors, field, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "is required")
		return time.Time{}, false
	}
	t, err := time.Parse(dates.ISODate, value)
	if err != nil {
		v.Add(field, "must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return t, true
}

// BillingItem is one row of the billing report.
type BillingItem struct {
	Title       string  `json:"title"`
	TotalAmount float64 `json:"totalAmount"`
}

type PaymentSummary struct {
	TotalPayments int     `json:"totalPayments"`
	TotalAmount   float64 `json:"totalAmount"`
}

type InsuranceSummary struct {
	TotalInsuranceCovered float64 `json:"totalInsuranceCovered"`
	TotalBills            int     `json:"totalBills"`
}

// Section names, also used as keys of Bundle.Errors.
const (
	SectionBilling   = "billing"
	SectionPayments  = "payments"
	SectionInsurance = "insurance"
)

// Bundle is the full reports page. A section that failed to load is nil
// and its message is in Errors.
type Bundle struct {
	Range     Range             `json:"range"`
	Billing   []BillingItem     `json:"billing"`
	Payments  *PaymentSummary   `json:"payments"`
	Insurance *InsuranceSummary `json:"insurance"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// BillingTotal sums the billing rows.
func (b *Bundle) BillingTotal() float64 {
	var sum float64
	for _, it := range b.Billing {
		sum += it.TotalAmount
	}
	return sum
}
