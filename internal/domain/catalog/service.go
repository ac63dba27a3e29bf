package catalog

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("service not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// ListActive returns the billable subset, used by the bill builder.
func (s *Service) ListActive(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Active(items), nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in.item())
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	item := in.item()
	item.ServiceID = id
	return s.repo.Update(ctx, id, item)
}

func (s *Service) Disable(ctx context.Context, id int64) error {
	return s.repo.Disable(ctx, id)
}

// Toggle flips item to active in place before calling upstream and restores
// the previous flag if the call fails. There is no enable endpoint, so
// activation goes through update.
func (s *Service) Toggle(ctx context.Context, item *Item, active bool) error {
	prev := item.IsActive
	item.IsActive = active

	var err error
	if active {
		_, err = s.repo.Update(ctx, item.ServiceID, *item)
	} else {
		err = s.repo.Disable(ctx, item.ServiceID)
	}
	if err != nil {
		item.IsActive = prev
		return fmt.Errorf("toggle service %d: %w", item.ServiceID, err)
	}
	return nil
}

// SetActive looks the item up in the current list and toggles it.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ServiceID == id {
			item := items[i]
			if err := s.Toggle(ctx, &item, active); err != nil {
				return &item, err
			}
			return &item, nil
		}
	}
	return nil, ErrNotFound
}
