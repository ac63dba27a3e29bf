package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/billing-console/internal/domain/insurance"
)

type stubPolicies struct {
	policies map[int64][]insurance.Policy
	err      error
	calls    int
}

func (s *stubPolicies) ByPatient(_ context.Context, id int64) ([]insurance.Policy, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.policies[id], nil
}

type stubGenerator struct {
	got  *GenerateRequest
	bill Bill
	err  error
}

func (g *stubGenerator) Generate(_ context.Context, req GenerateRequest) (*Bill, error) {
	g.got = &req
	if g.err != nil {
		return nil, g.err
	}
	b := g.bill
	return &b, nil
}

func coveredPolicies() *stubPolicies {
	pct := 20.0
	return &stubPolicies{policies: map[int64][]insurance.Policy{
		7: {{PolicyID: 1, PolicyNumber: "POL-7", CoverageAmount: 50000, CoveragePercentage: &pct, ValidFrom: "2000-01-01", ValidTo: "2999-12-31"}},
	}}
}

func newTestDraft(p PolicySource) *Draft {
	return NewDraft(testCatalog(), p, zerolog.Nop())
}

func TestDraft_PatientWithoutPolicyPaysGross(t *testing.T) {
	d := newTestDraft(coveredPolicies())
	d.SelectPatient(context.Background(), 8)
	require.NoError(t, d.SetQuantity(3, 1))

	p := d.Preview()
	assert.Zero(t, d.Coverage())
	assert.Equal(t, p.GrossAmount, p.NetPayable)
}

func TestDraft_CoverageFollowsPatient(t *testing.T) {
	d := newTestDraft(coveredPolicies())
	ctx := context.Background()

	d.SelectPatient(ctx, 7)
	require.NoError(t, d.SetQuantity(3, 1))
	assert.Equal(t, 800.0, d.Preview().NetPayable)

	d.SelectPatient(ctx, 8)
	assert.Equal(t, 1000.0, d.Preview().NetPayable)
}

func TestDraft_LookupFailureMeansNoCoverage(t *testing.T) {
	d := newTestDraft(&stubPolicies{err: errors.New("403")})
	d.SelectPatient(context.Background(), 7)
	assert.Zero(t, d.Coverage())
}

func TestDraft_QuantityRules(t *testing.T) {
	d := newTestDraft(nil)

	assert.ErrorIs(t, d.SetQuantity(1, -1), ErrNegativeQuantity)
	assert.ErrorIs(t, d.SetQuantity(99, 1), ErrUnknownService)

	require.NoError(t, d.Adjust(2, 2))
	require.NoError(t, d.Adjust(1, 1))
	require.NoError(t, d.Adjust(2, -5))
	assert.Equal(t, []LineItem{{ServiceID: 1, Quantity: 1}}, d.Items())
}

func TestDraft_SubmitIncomplete(t *testing.T) {
	gen := &stubGenerator{}
	d := newTestDraft(nil)

	_, err := d.Submit(context.Background(), gen)
	assert.ErrorIs(t, err, ErrIncomplete)

	d.SelectPatient(context.Background(), 7)
	require.NoError(t, d.SetQuantity(1, 0))
	_, err = d.Submit(context.Background(), gen)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Nil(t, gen.got, "no request may be sent for an incomplete draft")
}

func TestDraft_SubmitSendsOnlySelectedItems(t *testing.T) {
	gen := &stubGenerator{bill: Bill{BillID: 11, PatientID: 7, GrossAmount: 1000, InsuranceAmount: 250, NetPayable: 750, InvoiceNumber: "INV-11"}}
	d := newTestDraft(coveredPolicies())
	ctx := context.Background()
	d.SelectPatient(ctx, 7)
	require.NoError(t, d.SetQuantity(1, 0))
	require.NoError(t, d.SetQuantity(3, 1))

	out, err := d.Submit(ctx, gen)
	require.NoError(t, err)

	assert.Equal(t, GenerateRequest{PatientID: 7, Services: []LineItem{{ServiceID: 3, Quantity: 1}}}, *gen.got)
	assert.Equal(t, 750.0, out.Preview.NetPayable, "server amounts win over the preview")
	assert.Equal(t, 25.0, out.Preview.CoveragePercentage)
	assert.Equal(t, "INV-11", out.Preview.InvoiceNumber)
}

func TestDraft_Reset(t *testing.T) {
	d := newTestDraft(coveredPolicies())
	d.SelectPatient(context.Background(), 7)
	require.NoError(t, d.SetQuantity(1, 3))

	d.Reset()
	assert.Zero(t, d.PatientID())
	assert.Zero(t, d.Coverage())
	assert.Empty(t, d.Items())
	assert.Zero(t, d.Preview().GrossAmount)
}

func TestCoverageFor_SkipsLookupWithoutPatient(t *testing.T) {
	p := coveredPolicies()
	assert.Zero(t, CoverageFor(context.Background(), p, 0, time.Now(), zerolog.Nop()))
	assert.Zero(t, p.calls)
}
