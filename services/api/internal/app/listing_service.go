package app

import (
	"context"
	"log"
	"strings"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/geo"
)

type ListingRepository interface {
	Create(ctx context.Context, listing domain.Listing) error
	GetByID(ctx context.Context, id string) (domain.Listing, error)
	Update(ctx context.Context, listing domain.Listing) error
	Delete(ctx context.Context, id string) error
	// PublishFree moves a draft straight to active under a free period.
	// It reports false when the listing was not in draft anymore.
	PublishFree(ctx context.Context, id string) (bool, error)
	// MarkPaid moves a draft to pending_approval once payment completed.
	MarkPaid(ctx context.Context, id string) (bool, error)
}

// LocationResolver turns free-text locations into coordinates, or nil.
type LocationResolver interface {
	Resolve(ctx context.Context, locationText string) *geo.Coordinates
}

// PolicySource supplies the current free-period policy.
type PolicySource interface {
	Current(ctx context.Context) (domain.FreePeriodPolicy, error)
}

// Checkout is the handle a buyer completes payment through. Completion is
// reported back out-of-band via CompletePayment.
type Checkout struct {
	ID         string
	PaymentURI string
}

// CheckoutGateway creates checkout handles with the payment provider.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, listingID, title string, amountCents int64) (Checkout, error)
}

type ListingService struct {
	repo     ListingRepository
	resolver LocationResolver
	policies PolicySource
	payments CheckoutGateway
	clock    clock.Clock
	logger   *log.Logger

	listingFeeCents int64
}

const defaultListingFeeCents = 500

func NewListingService(repo ListingRepository, resolver LocationResolver, policies PolicySource, payments CheckoutGateway, clk clock.Clock, logger *log.Logger, opts ...ListingServiceOption) *ListingService {
	if logger == nil {
		logger = log.Default()
	}
	svc := &ListingService{
		repo:            repo,
		resolver:        resolver,
		policies:        policies,
		payments:        payments,
		clock:           clk,
		logger:          logger,
		listingFeeCents: defaultListingFeeCents,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ListingServiceOption func(*ListingService)

// WithListingFee overrides the default publication fee.
func WithListingFee(cents int64) ListingServiceOption {
	return func(s *ListingService) {
		if cents > 0 {
			s.listingFeeCents = cents
		}
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Address     string
	Suburb      string
	Postcode    string
	State       string
	StartDate   domain.Date
	EndDate     domain.Date
	StartTime   string
	EndTime     string
	CreatedBy   string
}

// CreateListing saves a new draft. Coordinates are resolved best-effort; a
// geocoding miss leaves them unset and the owner can retry by editing.
func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Listing{}, domain.ErrTitleRequired
	}
	if err := domain.ValidateDates(in.StartDate, in.EndDate); err != nil {
		return domain.Listing{}, err
	}

	now := s.clock.Now()
	listing := domain.Listing{
		ID:            newUUID(),
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Address:       in.Address,
		Suburb:        in.Suburb,
		Postcode:      in.Postcode,
		State:         in.State,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        domain.StatusDraft,
		PaymentStatus: domain.PaymentPending,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if coords := s.resolveLocation(ctx, listing); coords != nil {
		listing.Latitude = &coords.Latitude
		listing.Longitude = &coords.Longitude
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	if id == "" {
		return domain.Listing{}, domain.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Address     *string
	Suburb      *string
	Postcode    *string
	State       *string
	StartDate   *domain.Date
	EndDate     *domain.Date
	StartTime   *string
	EndTime     *string
}

// UpdateListing applies an owner edit. Drafts are fully editable; active
// listings may be touched until the event day passes, but their dates are
// locked once published.
func (s *ListingService) UpdateListing(ctx context.Context, id, userID string, in UpdateListingInput) (domain.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.CreatedBy != userID {
		return domain.Listing{}, domain.ErrNotOwner
	}

	today := clock.Today(s.clock)
	if !listing.Editable(today) {
		return domain.Listing{}, domain.ErrListingNotEditable
	}
	if (in.StartDate != nil || in.EndDate != nil || in.StartTime != nil || in.EndTime != nil) && !listing.DatesEditable() {
		return domain.Listing{}, domain.ErrDateEditNotAllowed
	}

	locationChanged := false
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return domain.Listing{}, domain.ErrTitleRequired
		}
		listing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Address != nil {
		listing.Address = *in.Address
		locationChanged = true
	}
	if in.Suburb != nil {
		listing.Suburb = *in.Suburb
		locationChanged = true
	}
	if in.Postcode != nil {
		listing.Postcode = *in.Postcode
		locationChanged = true
	}
	if in.State != nil {
		listing.State = *in.State
	}
	if in.StartDate != nil {
		listing.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		listing.EndDate = *in.EndDate
	}
	if in.StartTime != nil {
		listing.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		listing.EndTime = *in.EndTime
	}

	if err := domain.ValidateDates(listing.StartDate, listing.EndDate); err != nil {
		return domain.Listing{}, err
	}

	if locationChanged {
		listing.Latitude = nil
		listing.Longitude = nil
		if coords := s.resolveLocation(ctx, listing); coords != nil {
			listing.Latitude = &coords.Latitude
			listing.Longitude = &coords.Longitude
		}
	}

	listing.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, listing); err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

// DeleteListing removes a listing. Owners may delete their own; admins any.
func (s *ListingService) DeleteListing(ctx context.Context, id, userID string, isAdmin bool) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && listing.CreatedBy != userID {
		return domain.ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

type PublishResult struct {
	Listing domain.Listing
	// Free reports that the listing went straight to active under the
	// free-period override, skipping payment and admin review.
	Free     bool
	Checkout *Checkout
}

// PublishListing starts publication of a draft. When the event's start date
// falls inside an active free period the listing is activated immediately;
// otherwise a checkout handle is returned and the listing stays in draft
// until CompletePayment reports the payment back.
func (s *ListingService) PublishListing(ctx context.Context, id, userID string) (PublishResult, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublishResult{}, err
	}
	if listing.CreatedBy != userID {
		return PublishResult{}, domain.ErrNotOwner
	}
	if listing.Status != domain.StatusDraft {
		return PublishResult{}, domain.ErrInvalidTransition
	}

	policy, err := s.policies.Current(ctx)
	if err != nil {
		// No policy source reachable: fall through to the paid path.
		s.logger.Printf("WARN: free-period policy unavailable, listing %s takes paid path: %v", id, err)
		policy = domain.FreePeriodPolicy{}
	}

	if domain.IsListingFree(listing.StartDate, policy) {
		if _, err := domain.Transition(listing.Status, domain.StatusActive); err != nil {
			return PublishResult{}, err
		}
		updated, err := s.repo.PublishFree(ctx, id)
		if err != nil {
			return PublishResult{}, err
		}
		if !updated {
			return PublishResult{}, domain.ErrTransitionConflict
		}
		listing.Status = domain.StatusActive
		listing.PaymentStatus = domain.PaymentFree
		listing.IsFreeListing = true
		return PublishResult{Listing: listing, Free: true}, nil
	}

	if s.payments == nil {
		return PublishResult{}, domain.ErrPaymentUnavailable
	}
	checkout, err := s.payments.CreateCheckout(ctx, listing.ID, listing.Title, s.listingFeeCents)
	if err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Listing: listing, Checkout: &checkout}, nil
}

// CompletePayment runs the draft -> pending_approval transition once the
// gateway reports a successful payment out-of-band. Replays of the same
// completion are no-ops.
func (s *ListingService) CompletePayment(ctx context.Context, id string) (domain.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.Status == domain.StatusPendingApproval && listing.PaymentStatus == domain.PaymentPaid {
		return listing, nil
	}
	if _, err := domain.Transition(listing.Status, domain.StatusPendingApproval); err != nil {
		return domain.Listing{}, err
	}

	updated, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Listing{}, err
		}
		if current.Status == domain.StatusPendingApproval {
			return current, nil
		}
		return domain.Listing{}, domain.ErrTransitionConflict
	}

	listing.Status = domain.StatusPendingApproval
	listing.PaymentStatus = domain.PaymentPaid
	return listing, nil
}

// resolveLocation tries the most specific location text the listing offers,
// most of which hit the static gazetteer without an external call.
func (s *ListingService) resolveLocation(ctx context.Context, listing domain.Listing) *geo.Coordinates {
	if s.resolver == nil {
		return nil
	}
	for _, text := range []string{listing.Suburb, listing.Postcode, listing.Address} {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if coords := s.resolver.Resolve(ctx, text); coords != nil {
			return coords
		}
	}
	s.logger.Printf("WARN: could not resolve location for listing %s (suburb=%q postcode=%q)", listing.ID, listing.Suburb, listing.Postcode)
	return nil
}
