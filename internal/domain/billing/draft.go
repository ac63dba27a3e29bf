package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/domain/catalog"
	"github.com/medicare/billing-console/internal/domain/insurance"
)

// PolicySource looks up the policies assigned to a patient.
type PolicySource interface {
	ByPatient(ctx context.Context, patientID int64) ([]insurance.Policy, error)
}

// Generator submits a bill upstream.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Bill, error)
}

// CoverageFor returns the coverage percentage for patientID. A failed
// lookup is logged and treated as no coverage.
func CoverageFor(ctx context.Context, policies PolicySource, patientID int64, now time.Time, logger zerolog.Logger) float64 {
	if policies == nil || patientID <= 0 {
		return 0
	}
	list, err := policies.ByPatient(ctx, patientID)
	if err != nil {
		logger.Warn().Err(err).Int64("patient_id", patientID).Msg("insurance lookup failed, billing without coverage")
		return 0
	}
	return CoverageFrom(list, now)
}

// Draft is a bill being built: a patient, per-service quantities and the
// coverage resolved for that patient. A Draft is not safe for concurrent
// use.
type Draft struct {
	services []catalog.Item
	index    map[int64]catalog.Item
	policies PolicySource
	logger   zerolog.Logger
	now      func() time.Time

	patientID  int64
	coverage   float64
	order      []int64
	quantities map[int64]int
}

func NewDraft(services []catalog.Item, policies PolicySource, logger zerolog.Logger) *Draft {
	d := &Draft{
		services: services,
		index:    catalog.Index(services),
		policies: policies,
		logger:   logger,
		now:      time.Now,
	}
	d.Reset()
	return d
}

// SelectPatient sets the patient and refreshes the coverage. An id of 0
// clears the selection.
func (d *Draft) SelectPatient(ctx context.Context, patientID int64) {
	if patientID <= 0 {
		d.patientID, d.coverage = 0, 0
		return
	}
	d.patientID = patientID
	d.coverage = CoverageFor(ctx, d.policies, patientID, d.now(), d.logger)
}

func (d *Draft) PatientID() int64 { return d.patientID }

func (d *Draft) Coverage() float64 { return d.coverage }

// SetQuantity sets the units of a service. Zero removes it from the bill.
func (d *Draft) SetQuantity(serviceID int64, qty int) error {
	if qty < 0 {
		return fmt.Errorf("service %d: %w", serviceID, ErrNegativeQuantity)
	}
	if _, ok := d.index[serviceID]; !ok {
		return fmt.Errorf("service %d: %w", serviceID, ErrUnknownService)
	}
	if _, seen := d.quantities[serviceID]; !seen {
		d.order = append(d.order, serviceID)
	}
	d.quantities[serviceID] = qty
	return nil
}

// Adjust adds delta units to a service, never going below zero.
func (d *Draft) Adjust(serviceID int64, delta int) error {
	qty := d.quantities[serviceID] + delta
	if qty < 0 {
		qty = 0
	}
	return d.SetQuantity(serviceID, qty)
}

// Items returns the selected services with a positive quantity, in the
// order they were first touched.
func (d *Draft) Items() []LineItem {
	items := make([]LineItem, 0, len(d.order))
	for _, id := range d.order {
		if q := d.quantities[id]; q > 0 {
			items = append(items, LineItem{ServiceID: id, Quantity: q})
		}
	}
	return items
}

func (d *Draft) Preview() Preview {
	return Compute(d.Items(), d.services, d.coverage)
}

// Submit sends the draft upstream. Nothing is sent when the draft has no
// patient or no items. The returned preview carries the server's amounts.
func (d *Draft) Submit(ctx context.Context, gen Generator) (*Outcome, error) {
	items := d.Items()
	if d.patientID <= 0 || len(items) == 0 {
		return nil, ErrIncomplete
	}

	bill, err := gen.Generate(ctx, GenerateRequest{PatientID: d.patientID, Services: items})
	if err != nil {
		return nil, fmt.Errorf("generate bill: %w", err)
	}
	return &Outcome{Bill: *bill, Preview: applyServer(d.Preview(), *bill)}, nil
}

// Reset clears the patient, the coverage and every quantity.
func (d *Draft) Reset() {
	d.patientID = 0
	d.coverage = 0
	d.order = nil
	d.quantities = make(map[int64]int)
}
