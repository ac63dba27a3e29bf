package insurance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/internal/platform/cache"
)

const (
	providersNamespace = "insurance:providers"
	policiesNamespace  = "insurance:policies"
	defaultCacheTTL    = 5 * time.Minute
)

// Service fronts the insurance repository with a per-token lookup cache
// for the provider and policy lists.
type Service struct {
	repo   Repository
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if c == nil {
		c = cache.NewMemory()
	}
	return &Service{repo: repo, cache: c, ttl: ttl, logger: logger, now: time.Now}
}

func (s *Service) Providers(ctx context.Context, forceRefresh bool) ([]Provider, error) {
	key := cache.Key(providersNamespace, apiclient.TokenFromContext(ctx))
	return cache.GetOrLoad(ctx, s.cache, key, s.ttl, forceRefresh, s.repo.Providers)
}

func (s *Service) Policies(ctx context.Context, forceRefresh bool) ([]Policy, error) {
	key := cache.Key(policiesNamespace, apiclient.TokenFromContext(ctx))
	return cache.GetOrLoad(ctx, s.cache, key, s.ttl, forceRefresh, s.repo.Policies)
}

func (s *Service) Expiring(ctx context.Context) ([]Policy, error) {
	return s.repo.Expiring(ctx)
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]Policy, error) {
	return s.repo.ByPatient(ctx, patientID)
}

func (s *Service) Create(ctx context.Context, in PolicyInput) (*Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, in.Normalize())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, policiesNamespace)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in PolicyInput) (*Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, in.Normalize())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, policiesNamespace)
	return p, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, policiesNamespace)
	return nil
}

func (s *Service) Assign(ctx context.Context, req AssignRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.Assign(ctx, req); err != nil {
		return err
	}
	s.invalidate(ctx, providersNamespace, policiesNamespace)
	return nil
}

// Overview is the policy list page: the filtered rows with their badges,
// counts over the whole list and the number expiring soon.
type Overview struct {
	Policies []PolicyRow `json:"policies"`
	Counts   Counts      `json:"counts"`
}

type PolicyRow struct {
	Policy
	Status Status `json:"status"`
}

func (s *Service) Overview(ctx context.Context, term, status string, forceRefresh bool) (*Overview, error) {
	all, err := s.Policies(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filtered := Filter(all, term, status, now)
	rows := make([]PolicyRow, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, PolicyRow{Policy: p, Status: StatusAt(p, now)})
	}
	return &Overview{Policies: rows, Counts: CountAt(all, now)}, nil
}

// invalidate runs before the mutating call returns so the next read sees
// fresh data. A cache failure is logged, not returned: the mutation itself
// succeeded.
func (s *Service) invalidate(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		if err := cache.Invalidate(ctx, s.cache, ns); err != nil {
			s.logger.Warn().Err(err).Str("namespace", ns).Msg("cache invalidation failed")
		}
	}
}
