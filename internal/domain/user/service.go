package user

import (
	"context"
	"strings"

	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

func (s *Service) UpdateRole(ctx context.Context, id, role string) error {
	var v validate.Errors
	if strings.TrimSpace(id) == "" {
		v.Add("userId", "is required")
	}
	role = validateRole(&v, role)
	if err := v.Err(); err != nil {
		return err
	}
	return s.repo.UpdateRole(ctx, id, role)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, active bool) error {
	if strings.TrimSpace(id) == "" {
		var v validate.Errors
		v.Add("userId", "is required")
		return v.Err()
	}
	return s.repo.UpdateStatus(ctx, id, active)
}

// canonicalRole folds legacy role names so the user table shows one
// spelling per role.
func canonicalRole(role string) string {
	return session.NormalizeRole(role)
}
