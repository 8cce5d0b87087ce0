package app

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/geo"
)

var testInstant = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeListingRepo struct {
	listings map[string]domain.Listing

	created *domain.Listing
	updated *domain.Listing
	deleted []string

	publishFreeOK bool
	markPaidOK    bool
	publishCalls  int
	markPaidCalls int

	err error
}

func newFakeListingRepo(listings ...domain.Listing) *fakeListingRepo {
	repo := &fakeListingRepo{
		listings:      make(map[string]domain.Listing),
		publishFreeOK: true,
		markPaidOK:    true,
	}
	for _, l := range listings {
		repo.listings[l.ID] = l
	}
	return repo
}

func (f *fakeListingRepo) Create(ctx context.Context, listing domain.Listing) error {
	if f.err != nil {
		return f.err
	}
	f.created = &listing
	f.listings[listing.ID] = listing
	return nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	if f.err != nil {
		return domain.Listing{}, f.err
	}
	l, ok := f.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) Update(ctx context.Context, listing domain.Listing) error {
	if f.err != nil {
		return f.err
	}
	f.updated = &listing
	f.listings[listing.ID] = listing
	return nil
}

func (f *fakeListingRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepo) PublishFree(ctx context.Context, id string) (bool, error) {
	f.publishCalls++
	if f.err != nil {
		return false, f.err
	}
	if !f.publishFreeOK {
		return false, nil
	}
	l := f.listings[id]
	l.Status = domain.StatusActive
	l.PaymentStatus = domain.PaymentFree
	l.IsFreeListing = true
	f.listings[id] = l
	return true, nil
}

func (f *fakeListingRepo) MarkPaid(ctx context.Context, id string) (bool, error) {
	f.markPaidCalls++
	if f.err != nil {
		return false, f.err
	}
	if !f.markPaidOK {
		return false, nil
	}
	l := f.listings[id]
	l.Status = domain.StatusPendingApproval
	l.PaymentStatus = domain.PaymentPaid
	f.listings[id] = l
	return true, nil
}

type fakeResolver struct {
	coords  map[string]*geo.Coordinates
	queries []string
}

func (f *fakeResolver) Resolve(ctx context.Context, locationText string) *geo.Coordinates {
	f.queries = append(f.queries, locationText)
	return f.coords[locationText]
}

type fakePolicySource struct {
	policy domain.FreePeriodPolicy
	err    error
}

func (f *fakePolicySource) Current(ctx context.Context) (domain.FreePeriodPolicy, error) {
	return f.policy, f.err
}

type fakeGateway struct {
	checkout Checkout
	err      error
	calls    int
	amounts  []int64
}

func (f *fakeGateway) CreateCheckout(ctx context.Context, listingID, title string, amountCents int64) (Checkout, error) {
	f.calls++
	f.amounts = append(f.amounts, amountCents)
	return f.checkout, f.err
}

func validCreateInput() CreateListingInput {
	return CreateListingInput{
		Title:     "Garage sale: furniture and tools",
		Suburb:    "Brunswick",
		Postcode:  "3056",
		State:     "VIC",
		StartDate: domain.NewDate(2025, time.March, 15),
		EndDate:   domain.NewDate(2025, time.March, 16),
		StartTime: "09:00",
		EndTime:   "15:00",
		CreatedBy: "user-1",
	}
}

func TestCreateListing(t *testing.T) {
	t.Parallel()

	repo := newFakeListingRepo()
	resolver := &fakeResolver{coords: map[string]*geo.Coordinates{
		"Brunswick": {Latitude: -37.7667, Longitude: 144.9599},
	}}
	svc := NewListingService(repo, resolver, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

	listing, err := svc.CreateListing(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if listing.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if listing.Status != domain.StatusDraft || listing.PaymentStatus != domain.PaymentPending {
		t.Fatalf("new listing should be a pending-payment draft, got %s/%s", listing.Status, listing.PaymentStatus)
	}
	if listing.Latitude == nil || *listing.Latitude != -37.7667 {
		t.Fatalf("expected resolved coordinates, got %+v", listing.Latitude)
	}
	if repo.created == nil {
		t.Fatalf("expected the listing to be persisted")
	}
	if !listing.CreatedAt.Equal(testInstant) {
		t.Fatalf("expected creation time from the injected clock")
	}
}

func TestCreateListing_Validation(t *testing.T) {
	t.Parallel()

	svc := NewListingService(newFakeListingRepo(), nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

	in := validCreateInput()
	in.Title = "   "
	if _, err := svc.CreateListing(context.Background(), in); !errors.Is(err, domain.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	in = validCreateInput()
	in.EndDate = in.StartDate.AddDays(3)
	if _, err := svc.CreateListing(context.Background(), in); !errors.Is(err, domain.ErrDateSpanTooLong) {
		t.Fatalf("expected ErrDateSpanTooLong, got %v", err)
	}

	in = validCreateInput()
	in.EndDate = domain.Date{}
	if _, err := svc.CreateListing(context.Background(), in); !errors.Is(err, domain.ErrDatesRequired) {
		t.Fatalf("expected ErrDatesRequired, got %v", err)
	}
}

func TestCreateListing_GeocodeMissLeavesCoordinatesUnset(t *testing.T) {
	t.Parallel()

	repo := newFakeListingRepo()
	svc := NewListingService(repo, &fakeResolver{}, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

	listing, err := svc.CreateListing(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("an unresolvable location must not block creation: %v", err)
	}
	if listing.HasCoordinates() {
		t.Fatalf("expected no coordinates on a resolution miss")
	}
}

func TestUpdateListing(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{
		ID:        "l1",
		Title:     "Old title",
		Suburb:    "Brunswick",
		StartDate: domain.NewDate(2025, time.March, 15),
		EndDate:   domain.NewDate(2025, time.March, 16),
		Status:    domain.StatusDraft,
		CreatedBy: "user-1",
	}

	t.Run("owner edits a draft", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, &fakeResolver{}, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		title := "New title"
		start := domain.NewDate(2025, time.March, 20)
		end := domain.NewDate(2025, time.March, 21)
		got, err := svc.UpdateListing(context.Background(), "l1", "user-1", UpdateListingInput{
			Title:     &title,
			StartDate: &start,
			EndDate:   &end,
		})
		if err != nil {
			t.Fatalf("UpdateListing: %v", err)
		}
		if got.Title != "New title" || got.StartDate != start {
			t.Fatalf("edit not applied: %+v", got)
		}
		if repo.updated == nil {
			t.Fatalf("expected the update to be persisted")
		}
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		title := "Hijacked"
		if _, err := svc.UpdateListing(context.Background(), "l1", "someone-else", UpdateListingInput{Title: &title}); !errors.Is(err, domain.ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("active listing dates are locked", func(t *testing.T) {
		active := draft
		active.Status = domain.StatusActive
		repo := newFakeListingRepo(active)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		start := domain.NewDate(2025, time.March, 20)
		if _, err := svc.UpdateListing(context.Background(), "l1", "user-1", UpdateListingInput{StartDate: &start}); !errors.Is(err, domain.ErrDateEditNotAllowed) {
			t.Fatalf("expected ErrDateEditNotAllowed, got %v", err)
		}

		// Non-date fields stay editable while the event is current.
		desc := "Rain or shine"
		if _, err := svc.UpdateListing(context.Background(), "l1", "user-1", UpdateListingInput{Description: &desc}); err != nil {
			t.Fatalf("description edit on active listing: %v", err)
		}
	})

	t.Run("past listing is frozen", func(t *testing.T) {
		past := draft
		past.Status = domain.StatusActive
		past.StartDate = domain.NewDate(2025, time.March, 1)
		past.EndDate = domain.NewDate(2025, time.March, 2)
		repo := newFakeListingRepo(past)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		desc := "Too late"
		if _, err := svc.UpdateListing(context.Background(), "l1", "user-1", UpdateListingInput{Description: &desc}); !errors.Is(err, domain.ErrListingNotEditable) {
			t.Fatalf("expected ErrListingNotEditable, got %v", err)
		}
	})

	t.Run("location change re-resolves coordinates", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		resolver := &fakeResolver{coords: map[string]*geo.Coordinates{
			"Coburg": {Latitude: -37.7446, Longitude: 144.9640},
		}}
		svc := NewListingService(repo, resolver, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		suburb := "Coburg"
		got, err := svc.UpdateListing(context.Background(), "l1", "user-1", UpdateListingInput{Suburb: &suburb})
		if err != nil {
			t.Fatalf("UpdateListing: %v", err)
		}
		if got.Latitude == nil || *got.Latitude != -37.7446 {
			t.Fatalf("expected re-resolved coordinates, got %+v", got.Latitude)
		}
	})
}

func TestDeleteListing(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{ID: "l1", Status: domain.StatusDraft, CreatedBy: "user-1"}

	t.Run("owner deletes own listing", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if err := svc.DeleteListing(context.Background(), "l1", "user-1", false); err != nil {
			t.Fatalf("DeleteListing: %v", err)
		}
		if len(repo.deleted) != 1 || repo.deleted[0] != "l1" {
			t.Fatalf("expected l1 deleted, got %v", repo.deleted)
		}
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if err := svc.DeleteListing(context.Background(), "l1", "someone-else", false); !errors.Is(err, domain.ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("admin deletes any listing", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if err := svc.DeleteListing(context.Background(), "l1", "admin-1", true); err != nil {
			t.Fatalf("admin delete: %v", err)
		}
	})

	t.Run("missing listing", func(t *testing.T) {
		repo := newFakeListingRepo()
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if err := svc.DeleteListing(context.Background(), "missing", "user-1", false); !errors.Is(err, domain.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})
}

func TestPublishListing_FreePeriod(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{
		ID:        "l1",
		Title:     "Free weekend sale",
		StartDate: domain.NewDate(2025, time.June, 14),
		EndDate:   domain.NewDate(2025, time.June, 15),
		Status:    domain.StatusDraft,
		CreatedBy: "user-1",
	}
	policy := domain.FreePeriodPolicy{
		IsActive:         true,
		FreeListingStart: domain.NewDate(2025, time.June, 1),
		FreeListingEnd:   domain.NewDate(2025, time.June, 30),
	}

	repo := newFakeListingRepo(draft)
	gateway := &fakeGateway{}
	svc := NewListingService(repo, nil, &fakePolicySource{policy: policy}, gateway, clock.NewFixed(testInstant), quietLogger())

	res, err := svc.PublishListing(context.Background(), "l1", "user-1")
	if err != nil {
		t.Fatalf("PublishListing: %v", err)
	}
	if !res.Free {
		t.Fatalf("expected the free-period path")
	}
	if res.Listing.Status != domain.StatusActive || res.Listing.PaymentStatus != domain.PaymentFree {
		t.Fatalf("free listing should activate immediately, got %s/%s", res.Listing.Status, res.Listing.PaymentStatus)
	}
	if !res.Listing.IsFreeListing {
		t.Fatalf("expected the free flag set")
	}
	if res.Checkout != nil || gateway.calls != 0 {
		t.Fatalf("free publication must not touch the payment gateway")
	}
}

func TestPublishListing_PaidPath(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{
		ID:        "l1",
		Title:     "Paid sale",
		StartDate: domain.NewDate(2025, time.March, 15),
		EndDate:   domain.NewDate(2025, time.March, 16),
		Status:    domain.StatusDraft,
		CreatedBy: "user-1",
	}

	repo := newFakeListingRepo(draft)
	gateway := &fakeGateway{checkout: Checkout{ID: "chk_1", PaymentURI: "https://pay.example/chk_1"}}
	svc := NewListingService(repo, nil, &fakePolicySource{}, gateway, clock.NewFixed(testInstant), quietLogger(), WithListingFee(750))

	res, err := svc.PublishListing(context.Background(), "l1", "user-1")
	if err != nil {
		t.Fatalf("PublishListing: %v", err)
	}
	if res.Free {
		t.Fatalf("expected the paid path")
	}
	if res.Checkout == nil || res.Checkout.ID != "chk_1" {
		t.Fatalf("expected a checkout handle, got %+v", res.Checkout)
	}
	if res.Listing.Status != domain.StatusDraft {
		t.Fatalf("listing must stay draft until payment completes, got %s", res.Listing.Status)
	}
	if len(gateway.amounts) != 1 || gateway.amounts[0] != 750 {
		t.Fatalf("expected the configured fee, got %v", gateway.amounts)
	}
}

func TestPublishListing_Refusals(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{
		ID:        "l1",
		StartDate: domain.NewDate(2025, time.March, 15),
		EndDate:   domain.NewDate(2025, time.March, 16),
		Status:    domain.StatusDraft,
		CreatedBy: "user-1",
	}

	t.Run("non-owner", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo(draft), nil, &fakePolicySource{}, &fakeGateway{}, clock.NewFixed(testInstant), quietLogger())
		if _, err := svc.PublishListing(context.Background(), "l1", "someone-else"); !errors.Is(err, domain.ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("non-draft", func(t *testing.T) {
		active := draft
		active.Status = domain.StatusActive
		svc := NewListingService(newFakeListingRepo(active), nil, &fakePolicySource{}, &fakeGateway{}, clock.NewFixed(testInstant), quietLogger())
		if _, err := svc.PublishListing(context.Background(), "l1", "user-1"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("payment gateway unconfigured", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo(draft), nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if _, err := svc.PublishListing(context.Background(), "l1", "user-1"); !errors.Is(err, domain.ErrPaymentUnavailable) {
			t.Fatalf("expected ErrPaymentUnavailable, got %v", err)
		}
	})

	t.Run("policy source failure degrades to paid path", func(t *testing.T) {
		gateway := &fakeGateway{checkout: Checkout{ID: "chk_2"}}
		svc := NewListingService(newFakeListingRepo(draft), nil, &fakePolicySource{err: errors.New("store down")}, gateway, clock.NewFixed(testInstant), quietLogger())
		res, err := svc.PublishListing(context.Background(), "l1", "user-1")
		if err != nil {
			t.Fatalf("PublishListing: %v", err)
		}
		if res.Free || res.Checkout == nil {
			t.Fatalf("expected paid path when the policy store is down, got %+v", res)
		}
	})

	t.Run("free publish loses the race", func(t *testing.T) {
		policy := domain.FreePeriodPolicy{
			IsActive:         true,
			FreeListingStart: domain.NewDate(2025, time.March, 1),
			FreeListingEnd:   domain.NewDate(2025, time.March, 31),
		}
		repo := newFakeListingRepo(draft)
		repo.publishFreeOK = false
		svc := NewListingService(repo, nil, &fakePolicySource{policy: policy}, nil, clock.NewFixed(testInstant), quietLogger())
		if _, err := svc.PublishListing(context.Background(), "l1", "user-1"); !errors.Is(err, domain.ErrTransitionConflict) {
			t.Fatalf("expected ErrTransitionConflict, got %v", err)
		}
	})
}

func TestCompletePayment(t *testing.T) {
	t.Parallel()

	draft := domain.Listing{
		ID:            "l1",
		Status:        domain.StatusDraft,
		PaymentStatus: domain.PaymentPending,
		CreatedBy:     "user-1",
	}

	t.Run("draft moves to pending approval", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		got, err := svc.CompletePayment(context.Background(), "l1")
		if err != nil {
			t.Fatalf("CompletePayment: %v", err)
		}
		if got.Status != domain.StatusPendingApproval || got.PaymentStatus != domain.PaymentPaid {
			t.Fatalf("expected pending_approval/paid, got %s/%s", got.Status, got.PaymentStatus)
		}
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		paid := draft
		paid.Status = domain.StatusPendingApproval
		paid.PaymentStatus = domain.PaymentPaid
		repo := newFakeListingRepo(paid)
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		got, err := svc.CompletePayment(context.Background(), "l1")
		if err != nil {
			t.Fatalf("replay should not fail: %v", err)
		}
		if got.Status != domain.StatusPendingApproval {
			t.Fatalf("expected pending_approval, got %s", got.Status)
		}
		if repo.markPaidCalls != 0 {
			t.Fatalf("replay must not rewrite the listing")
		}
	})

	t.Run("lost race resolves by re-read", func(t *testing.T) {
		repo := newFakeListingRepo(draft)
		repo.markPaidOK = false
		svc := NewListingService(repo, nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())

		// The conditional write failed and the listing is still a draft
		// with no concurrent winner: that is a conflict.
		if _, err := svc.CompletePayment(context.Background(), "l1"); !errors.Is(err, domain.ErrTransitionConflict) {
			t.Fatalf("expected ErrTransitionConflict, got %v", err)
		}
	})

	t.Run("terminal listing refuses payment", func(t *testing.T) {
		rejected := draft
		rejected.Status = domain.StatusRejected
		svc := NewListingService(newFakeListingRepo(rejected), nil, &fakePolicySource{}, nil, clock.NewFixed(testInstant), quietLogger())
		if _, err := svc.CompletePayment(context.Background(), "l1"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}
