package app

import (
	"context"
	"log"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

type PolicyRepository interface {
	Get(ctx context.Context) (domain.FreePeriodPolicy, error)
	Save(ctx context.Context, policy domain.FreePeriodPolicy) error
}

// PolicyCache is the process-local provisional fallback behind the primary
// policy store. Anything read from it is marked provisional, and it is
// cleared the next time a primary write succeeds.
type PolicyCache interface {
	Get() (domain.FreePeriodPolicy, bool)
	Put(policy domain.FreePeriodPolicy)
	Clear()
}

// PolicyService exposes the free-period policy as a two-tier read-through
// value: the primary store is the source of truth, the cache covers the
// window where the primary is unreachable.
type PolicyService struct {
	repo   PolicyRepository
	cache  PolicyCache
	clock  clock.Clock
	logger *log.Logger
}

func NewPolicyService(repo PolicyRepository, cache PolicyCache, clk clock.Clock, logger *log.Logger) *PolicyService {
	if logger == nil {
		logger = log.Default()
	}
	return &PolicyService{repo: repo, cache: cache, clock: clk, logger: logger}
}

// Current returns the policy in force. When the primary store fails, a
// provisional cached copy is served if one exists; with neither available
// the error propagates and callers degrade to the paid path.
func (s *PolicyService) Current(ctx context.Context) (domain.FreePeriodPolicy, error) {
	policy, err := s.repo.Get(ctx)
	if err == nil {
		return policy, nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(); ok {
			s.logger.Printf("WARN: policy store unavailable, serving provisional cached policy: %v", err)
			cached.Provisional = true
			return cached, nil
		}
	}
	return domain.FreePeriodPolicy{}, err
}

type UpdatePolicyInput struct {
	IsActive         *bool
	FreeListingStart *domain.Date
	FreeListingEnd   *domain.Date
}

// UpdatePolicy merges the partial input over the current policy and writes
// it to the primary store. When the primary write fails the merged value is
// parked in the provisional cache so the administrator's intent survives
// until the store recovers; the returned policy carries Provisional=true in
// that case.
func (s *PolicyService) UpdatePolicy(ctx context.Context, in UpdatePolicyInput) (domain.FreePeriodPolicy, error) {
	policy, err := s.Current(ctx)
	if err != nil {
		// No current value anywhere; start from zero.
		policy = domain.FreePeriodPolicy{}
	}
	policy.Provisional = false

	if in.IsActive != nil {
		policy.IsActive = *in.IsActive
	}
	if in.FreeListingStart != nil {
		policy.FreeListingStart = *in.FreeListingStart
	}
	if in.FreeListingEnd != nil {
		policy.FreeListingEnd = *in.FreeListingEnd
	}

	if policy.IsActive {
		if policy.FreeListingStart.IsZero() || policy.FreeListingEnd.IsZero() {
			return domain.FreePeriodPolicy{}, domain.ErrDatesRequired
		}
		if policy.FreeListingEnd.Before(policy.FreeListingStart) {
			return domain.FreePeriodPolicy{}, domain.ErrInvalidDateRange
		}
	}

	policy.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, policy); err != nil {
		if s.cache == nil {
			return domain.FreePeriodPolicy{}, err
		}
		s.logger.Printf("WARN: policy store unavailable, caching policy provisionally: %v", err)
		s.cache.Put(policy)
		policy.Provisional = true
		return policy, nil
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	return policy, nil
}
