package payment

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and forwards a payment. The remaining balance and the
// bill status come back from upstream.
func (s *Service) Record(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Record(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ByBill(ctx context.Context, billID int64) ([]Payment, error) {
	return s.repo.ByBill(ctx, billID)
}

func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}
