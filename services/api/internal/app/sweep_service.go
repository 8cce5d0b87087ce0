package app

import (
	"context"
	"log"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

type SweepRepository interface {
	// CompleteExpired advances every active listing whose end date is
	// before the given day to completed, returning how many rows moved.
	// The write is conditional on status so it cannot clobber a
	// concurrent edit or be replayed over one.
	CompleteExpired(ctx context.Context, before domain.Date) (int64, error)
}

// SweepService is the periodic, non-interactive process that closes
// expired listings.
type SweepService struct {
	repo   SweepRepository
	clock  clock.Clock
	logger *log.Logger
}

func NewSweepService(repo SweepRepository, clk clock.Clock, logger *log.Logger) *SweepService {
	if logger == nil {
		logger = log.Default()
	}
	return &SweepService{repo: repo, clock: clk, logger: logger}
}

// Run performs one sweep pass and returns the number of listings completed.
func (s *SweepService) Run(ctx context.Context) (int64, error) {
	today := clock.Today(s.clock)
	n, err := s.repo.CompleteExpired(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Printf("sweep completed %d expired listing(s)", n)
	}
	return n, nil
}
