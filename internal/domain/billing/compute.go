package billing

import (
	"math"
	"time"

	"github.com/medicare/billing-console/internal/domain/catalog"
	"github.com/medicare/billing-console/internal/domain/insurance"
)

// Compute prices items against the catalog. Items with no units and items
// missing from the catalog contribute nothing. coverage is clamped to
// [0, 100] so the net payable never goes negative.
func Compute(items []LineItem, services []catalog.Item, coverage float64) Preview {
	index := catalog.Index(services)
	p := Preview{Lines: []Line{}, CoveragePercentage: clampCoverage(coverage)}

	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		svc, ok := index[it.ServiceID]
		if !ok {
			continue
		}
		amount := svc.Cost * float64(it.Quantity)
		p.Lines = append(p.Lines, Line{
			ServiceID: svc.ServiceID,
			Name:      svc.ServiceName,
			UnitCost:  svc.Cost,
			Quantity:  it.Quantity,
			Amount:    amount,
		})
		p.GrossAmount += amount
	}

	p.InsuranceAmount = p.GrossAmount * p.CoveragePercentage / 100
	p.NetPayable = p.GrossAmount - p.InsuranceAmount
	return p
}

func clampCoverage(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}

// CoverageFrom picks the coverage of the first in-force policy that has a
// positive percentage. No such policy means no coverage.
func CoverageFrom(policies []insurance.Policy, now time.Time) float64 {
	for _, p := range policies {
		if !insurance.InForce(p, now) {
			continue
		}
		if pct := p.Percentage(); pct > 0 {
			return clampCoverage(pct)
		}
	}
	return 0
}

// applyServer overwrites the preview with the server's authoritative
// amounts. The coverage percentage is taken from the bill when present,
// otherwise derived from the amounts. Local line amounts are kept for
// display and flagged when they do not add up to the server's gross.
func applyServer(p Preview, b Bill) Preview {
	var local float64
	for _, l := range p.Lines {
		local += l.Amount
	}
	p.LinesRepriced = len(p.Lines) > 0 && math.Abs(local-b.GrossAmount) >= 0.005

	p.GrossAmount = b.GrossAmount
	p.InsuranceAmount = b.InsuranceAmount
	p.NetPayable = b.NetPayable
	p.InvoiceNumber = b.InvoiceNumber

	switch {
	case b.InsurancePercentage != nil:
		p.CoveragePercentage = *b.InsurancePercentage
	case b.GrossAmount > 0:
		p.CoveragePercentage = math.Round(b.InsuranceAmount / b.GrossAmount * 100)
	}
	return p
}
