package report

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

// ErrNoSections is returned by All when every section failed.
var ErrNoSections = errors.New("no report section could be loaded")

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Billing(ctx context.Context, r Range) ([]BillingItem, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Billing(ctx, r)
}

func (s *Service) Payments(ctx context.Context, r Range) (*PaymentSummary, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Payments(ctx, r)
}

func (s *Service) Insurance(ctx context.Context, r Range) (*InsuranceSummary, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Insurance(ctx, r)
}

// All loads the three sections concurrently. A failing section is recorded
// in Bundle.Errors and does not blank the others; only when all three fail
// is an error returned, wrapping the first failure.
func (s *Service) All(ctx context.Context, r Range) (*Bundle, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	b := &Bundle{Range: r}
	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(section string, err error) {
		s.logger.Warn().Err(err).Str("section", section).Msg("report section failed")
		mu.Lock()
		defer mu.Unlock()
		if b.Errors == nil {
			b.Errors = make(map[string]string)
		}
		b.Errors[section] = apiclient.MessageOf(err, "Failed to load "+section+" report")
		if firstErr == nil {
			firstErr = err
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		items, err := s.repo.Billing(ctx, r)
		if err != nil {
			fail(SectionBilling, err)
			return nil
		}
		b.Billing = items
		return nil
	})
	g.Go(func() error {
		sum, err := s.repo.Payments(ctx, r)
		if err != nil {
			fail(SectionPayments, err)
			return nil
		}
		b.Payments = sum
		return nil
	})
	g.Go(func() error {
		sum, err := s.repo.Insurance(ctx, r)
		if err != nil {
			fail(SectionInsurance, err)
			return nil
		}
		b.Insurance = sum
		return nil
	})
	_ = g.Wait()

	if len(b.Errors) == 3 {
		return nil, errors.Join(ErrNoSections, firstErr)
	}
	return b, nil
}
