package app

import (
	"context"
	"log"
	"strings"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

type AdminRepository interface {
	GetByID(ctx context.Context, id string) (domain.Listing, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
	// SetApproved and SetRejected are conditional on the listing still
	// being in pending_approval; they report false otherwise, which makes
	// concurrent approve/reject mutually exclusive.
	SetApproved(ctx context.Context, id string) (bool, error)
	SetRejected(ctx context.Context, id, reason string) (bool, error)
}

// Notifier delivers fire-and-forget owner notifications. Failures are
// logged by the service and never roll back the transition that
// triggered them.
type Notifier interface {
	ListingApproved(ctx context.Context, ownerID, title string) error
	ListingRejected(ctx context.Context, ownerID, title, reason string) error
}

type AdminService struct {
	repo     AdminRepository
	notifier Notifier
	clock    clock.Clock
	logger   *log.Logger
}

func NewAdminService(repo AdminRepository, notifier Notifier, clk clock.Clock, logger *log.Logger) *AdminService {
	if logger == nil {
		logger = log.Default()
	}
	return &AdminService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// ApproveListing moves a pending listing to active and notifies the owner.
// Re-approving an already-active listing is a no-op and does not resend the
// notification. A listing that changed state underneath the conditional
// write surfaces a retryable conflict.
func (s *AdminService) ApproveListing(ctx context.Context, id string) (domain.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.Status == domain.StatusActive {
		return listing, nil
	}
	if _, err := domain.Transition(listing.Status, domain.StatusActive); err != nil {
		return domain.Listing{}, err
	}

	updated, err := s.repo.SetApproved(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Listing{}, err
		}
		if current.Status == domain.StatusActive {
			// A concurrent approve won the race; ours is a no-op.
			return current, nil
		}
		return domain.Listing{}, domain.ErrTransitionConflict
	}

	listing.Status = domain.StatusActive
	s.notify(ctx, func(ctx context.Context) error {
		return s.notifier.ListingApproved(ctx, listing.CreatedBy, listing.Title)
	})
	return listing, nil
}

// RejectListing moves a pending listing to rejected with the given reason
// and notifies the owner.
func (s *AdminService) RejectListing(ctx context.Context, id, reason string) (domain.Listing, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Listing{}, domain.ErrRejectionReasonRequired
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.Status == domain.StatusRejected {
		return listing, nil
	}
	if _, err := domain.Transition(listing.Status, domain.StatusRejected); err != nil {
		return domain.Listing{}, err
	}

	updated, err := s.repo.SetRejected(ctx, id, reason)
	if err != nil {
		return domain.Listing{}, err
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Listing{}, err
		}
		if current.Status == domain.StatusRejected {
			return current, nil
		}
		return domain.Listing{}, domain.ErrTransitionConflict
	}

	listing.Status = domain.StatusRejected
	listing.RejectionReason = reason
	s.notify(ctx, func(ctx context.Context) error {
		return s.notifier.ListingRejected(ctx, listing.CreatedBy, listing.Title, reason)
	})
	return listing, nil
}

// ListListings returns the full catalog for administrative views. Stored
// statuses are re-derived from the date fields so an active listing whose
// event has passed reads as completed even before the sweep runs. With
// includePast false, listings whose events have ended are dropped.
func (s *AdminService) ListListings(ctx context.Context, includePast bool) ([]domain.Listing, error) {
	listings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !includePast && !l.IsCurrent(today) {
			continue
		}
		l.Status = l.EffectiveStatus(today)
		out = append(out, l)
	}
	return out, nil
}

func (s *AdminService) notify(ctx context.Context, fn func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Printf("WARN: owner notification failed: %v", err)
	}
}
