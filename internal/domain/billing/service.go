package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/domain/catalog"
	"github.com/medicare/billing-console/internal/domain/payment"
	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/pkg/pagination"
	"github.com/medicare/billing-console/pkg/validate"
)

// CatalogSource lists the services that can be billed.
type CatalogSource interface {
	ListActive(ctx context.Context) ([]catalog.Item, error)
}

// PaymentRecorder records a payment against a bill.
type PaymentRecorder interface {
	Record(ctx context.Context, req payment.Request) (*payment.Response, error)
}

type Service struct {
	repo     Repository
	services CatalogSource
	policies PolicySource
	payments PaymentRecorder
	logger   zerolog.Logger
}

func NewService(repo Repository, services CatalogSource, policies PolicySource, payments PaymentRecorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, services: services, policies: policies, payments: payments, logger: logger}
}

// Draft builds a draft from a submitted form: the active catalog, the
// patient (and so the coverage) and every quantity.
func (s *Service) Draft(ctx context.Context, req GenerateRequest) (*Draft, error) {
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	d := NewDraft(services, s.policies, s.logger)
	d.SelectPatient(ctx, req.PatientID)

	var v validate.Errors
	for i, it := range req.Services {
		if err := d.SetQuantity(it.ServiceID, it.Quantity); err != nil {
			field := fmt.Sprintf("services[%d]", i)
			switch {
			case errors.Is(err, ErrNegativeQuantity):
				v.Add(field+".quantity", "cannot be negative")
			case errors.Is(err, ErrUnknownService):
				v.Add(field+".serviceId", "is not an active service")
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// DraftView is the live preview of a bill being built.
type DraftView struct {
	PatientID int64      `json:"patientId"`
	Items     []LineItem `json:"items"`
	Preview   Preview    `json:"preview"`
}

func (s *Service) Preview(ctx context.Context, req GenerateRequest) (*DraftView, error) {
	d, err := s.Draft(ctx, req)
	if err != nil {
		return nil, err
	}
	return &DraftView{PatientID: d.PatientID(), Items: d.Items(), Preview: d.Preview()}, nil
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Outcome, error) {
	d, err := s.Draft(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := d.Submit(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("bill_id", out.Bill.Key()).
		Int64("patient_id", out.Bill.PatientID).
		Str("invoice", out.Bill.InvoiceNumber).
		Msg("bill generated")
	return out, nil
}

// List returns a page of bills. The filter matches the invoice number.
func (s *Service) List(ctx context.Context, p pagination.Params) ([]Bill, int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows := all
	if p.Filter != "" {
		rows = make([]Bill, 0, len(all))
		for _, b := range all {
			if strings.Contains(strings.ToLower(b.InvoiceNumber), p.Filter) {
				rows = append(rows, b)
			}
		}
	}
	return pagination.Page(rows, p), len(rows), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Bill, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) DownloadInvoice(ctx context.Context, id int64) (*apiclient.Blob, error) {
	return s.repo.DownloadInvoice(ctx, id)
}

func (s *Service) EmailInvoice(ctx context.Context, id int64) error {
	return s.repo.EmailInvoice(ctx, id)
}

// Pay records a payment of the bill's full net payable. The mode defaults
// to UPI, as on the bill builder.
func (s *Service) Pay(ctx context.Context, id int64, mode string) (*PayResult, error) {
	if mode == "" {
		mode = payment.ModeUPI
	}
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.payments.Record(ctx, payment.Request{
		BillID:      bill.Key(),
		PaidAmount:  bill.NetPayable,
		PaymentMode: mode,
	})
	if err != nil {
		return nil, err
	}
	return &PayResult{Bill: *bill, Payment: *resp}, nil
}
