package app

import (
	"context"
	"log"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/geo"
)

type SearchRepository interface {
	// ListPubliclyVisible returns listings that are active and paid for
	// (or free-period published). Temporal and distance filtering happen
	// in the service.
	ListPubliclyVisible(ctx context.Context) ([]domain.Listing, error)
}

type SearchService struct {
	repo     SearchRepository
	resolver LocationResolver
	clock    clock.Clock
	logger   *log.Logger

	defaultRadiusKm float64
}

const defaultSearchRadiusKm = 10.0

func NewSearchService(repo SearchRepository, resolver LocationResolver, clk clock.Clock, logger *log.Logger, opts ...SearchServiceOption) *SearchService {
	if logger == nil {
		logger = log.Default()
	}
	svc := &SearchService{
		repo:            repo,
		resolver:        resolver,
		clock:           clk,
		logger:          logger,
		defaultRadiusKm: defaultSearchRadiusKm,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type SearchServiceOption func(*SearchService)

// WithDefaultRadius overrides the radius used when the caller sends none.
func WithDefaultRadius(km float64) SearchServiceOption {
	return func(s *SearchService) {
		if km > 0 {
			s.defaultRadiusKm = km
		}
	}
}

type SearchInput struct {
	Location string
	RadiusKm float64
}

type SearchResult struct {
	Listings []domain.Listing
	// Origin is nil when the location could not be resolved; the result
	// then carries every current listing with no distance cut applied.
	Origin   *geo.Coordinates
	RadiusKm float64
}

// Search runs the public discovery path: expired listings are dropped first,
// then the remainder is cut by distance from the resolved origin. A
// resolution miss degrades to a location-free result rather than failing.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (SearchResult, error) {
	radius := in.RadiusKm
	if radius <= 0 {
		radius = s.defaultRadiusKm
	}

	listings, err := s.repo.ListPubliclyVisible(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	today := clock.Today(s.clock)
	current := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.EndDate.IsZero() {
			// Fail open but leave a trail for data-quality review.
			s.logger.Printf("WARN: listing %s has no end date, treating as current", l.ID)
		}
		if l.IsCurrent(today) {
			current = append(current, l)
		}
	}

	var origin *geo.Coordinates
	if s.resolver != nil {
		origin = s.resolver.Resolve(ctx, in.Location)
	}
	if origin == nil {
		return SearchResult{Listings: current, RadiusKm: radius}, nil
	}

	return SearchResult{
		Listings: geo.FilterByDistance(current, *origin, radius),
		Origin:   origin,
		RadiusKm: radius,
	}, nil
}
