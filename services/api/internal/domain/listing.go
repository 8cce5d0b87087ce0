package domain

import "time"

type ListingStatus string

const (
	StatusDraft           ListingStatus = "draft"
	StatusPendingApproval ListingStatus = "pending_approval"
	StatusActive          ListingStatus = "active"
	StatusRejected        ListingStatus = "rejected"
	StatusCompleted       ListingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFree      PaymentStatus = "free"
	PaymentCompleted PaymentStatus = "completed"
)

// maxSaleDays is the longest calendar span a sale event may cover.
const maxSaleDays = 3

// Listing is a time-boxed sale event published by a seller.
type Listing struct {
	ID          string
	Title       string
	Description string
	Address     string
	Suburb      string
	Postcode    string
	State       string
	Latitude    *float64
	Longitude   *float64
	StartDate   Date
	EndDate     Date
	// StartTime and EndTime are display-only local clock times ("09:00").
	StartTime       string
	EndTime         string
	Status          ListingStatus
	PaymentStatus   PaymentStatus
	IsFreeListing   bool
	RejectionReason string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// transitions is the authority for every status change a listing may make.
// Anything not listed here is rejected before a write is attempted.
var transitions = map[ListingStatus][]ListingStatus{
	StatusDraft:           {StatusPendingApproval, StatusActive},
	StatusPendingApproval: {StatusActive, StatusRejected},
	StatusActive:          {StatusCompleted},
}

// CanTransition reports whether the status change from -> to is allowed.
func CanTransition(from, to ListingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a requested status change against the transition
// table. It is the single gate every state-changing operation goes through.
func Transition(from, to ListingStatus) (ListingStatus, error) {
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	return to, nil
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(s ListingStatus) bool {
	return len(transitions[s]) == 0
}

// ValidateDates enforces the calendar constraints on a sale event: both
// dates set, end not before start, and a span of at most three days.
func ValidateDates(start, end Date) error {
	if start.IsZero() || end.IsZero() {
		return ErrDatesRequired
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	if start.DaysUntil(end) >= maxSaleDays {
		return ErrDateSpanTooLong
	}
	return nil
}

// IsCurrent reports whether the listing's event has not yet ended as of the
// reference day. The end date counts through the end of its calendar day, so
// a sale is still current on its final day. A listing with no end date is
// treated as current (fail open); callers log the anomaly rather than hide
// the listing.
func (l Listing) IsCurrent(ref Date) bool {
	if l.EndDate.IsZero() {
		return true
	}
	return !l.EndDate.EndOfDay().Before(ref.StartOfDay())
}

// HasCoordinates reports whether both coordinates were resolved at creation.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// IsPubliclyVisible reports whether the listing may appear in public search:
// it must be active and either paid for or published under a free period.
// Temporal validity is checked separately against a reference day.
func (l Listing) IsPubliclyVisible() bool {
	if l.Status != StatusActive {
		return false
	}
	switch l.PaymentStatus {
	case PaymentPaid, PaymentFree, PaymentCompleted:
		return true
	}
	return false
}

// EffectiveStatus re-derives the display status from the date fields rather
// than trusting the stored value: an active listing whose end date has
// passed reads as completed even when the sweep has not caught up yet.
func (l Listing) EffectiveStatus(ref Date) ListingStatus {
	if l.Status == StatusActive && !l.EndDate.IsZero() && l.EndDate.Before(ref) {
		return StatusCompleted
	}
	return l.Status
}

// DatesEditable reports whether the event dates may still be changed.
// Date edits are only permitted while the listing is a draft.
func (l Listing) DatesEditable() bool {
	return l.Status == StatusDraft
}

// Editable reports whether the owner may still edit the listing at all:
// drafts always, active listings only until the event day has passed.
func (l Listing) Editable(ref Date) bool {
	switch l.Status {
	case StatusDraft:
		return true
	case StatusActive:
		return l.IsCurrent(ref)
	}
	return false
}
