// Package dashboard joins the landing page figures from several upstream
// lists.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medicare/billing-console/internal/domain/billing"
	"github.com/medicare/billing-console/internal/domain/insurance"
	"github.com/medicare/billing-console/internal/domain/patient"
	"github.com/medicare/billing-console/internal/platform/session"
)

type PatientLister interface {
	List(ctx context.Context) ([]patient.Patient, error)
}

type BillLister interface {
	List(ctx context.Context) ([]billing.Bill, error)
}

type PolicyLister interface {
	Policies(ctx context.Context, forceRefresh bool) ([]insurance.Policy, error)
}

// Stats are the dashboard counters. Sections the user cannot see stay 0.
type Stats struct {
	Patients int     `json:"patients"`
	Bills    int     `json:"bills"`
	Revenue  float64 `json:"revenue"`
	Policies int     `json:"policies"`
	Expiring int     `json:"expiring"`
}

type Service struct {
	patients PatientLister
	bills    BillLister
	policies PolicyLister
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(patients PatientLister, bills BillLister, policies PolicyLister, logger zerolog.Logger) *Service {
	return &Service{patients: patients, bills: bills, policies: policies, logger: logger, now: time.Now}
}

// policyRoles may read the policy list upstream.
var policyRoles = []string{session.RoleAdmin, session.RoleInsurance}

// Stats fetches every list concurrently. Each branch absorbs its own
// failure so a role-scoped 403 on one list leaves the other counters
// intact.
func (s *Service) Stats(ctx context.Context, sess *session.Session) Stats {
	var (
		stats Stats
		g     errgroup.Group
	)

	g.Go(func() error {
		list, err := s.patients.List(ctx)
		if err != nil {
			s.warn(err, "patients")
			return nil
		}
		stats.Patients = len(list)
		return nil
	})

	g.Go(func() error {
		list, err := s.bills.List(ctx)
		if err != nil {
			s.warn(err, "bills")
			return nil
		}
		stats.Bills = len(list)
		for _, b := range list {
			stats.Revenue += b.GrossAmount
		}
		return nil
	})

	if s.policies != nil && sess.HasRole(policyRoles...) {
		g.Go(func() error {
			list, err := s.policies.Policies(ctx, false)
			if err != nil {
				s.warn(err, "policies")
				return nil
			}
			stats.Policies = len(list)
			stats.Expiring = insurance.CountAt(list, s.now()).Expiring
			return nil
		})
	}

	_ = g.Wait()
	return stats
}

func (s *Service) warn(err error, section string) {
	s.logger.Warn().Err(err).Str("section", section).Msg("dashboard section unavailable")
}
