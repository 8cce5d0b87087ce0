package domain

import "time"

// FreePeriodPolicy is the administrator-controlled promotional window. It is
// a single process-wide value: listings whose event starts inside the window
// are published without payment.
type FreePeriodPolicy struct {
	IsActive         bool
	FreeListingStart Date
	FreeListingEnd   Date
	// Provisional marks a copy served from the local fallback cache while
	// the primary store was unreachable.
	Provisional bool
	UpdatedAt   time.Time
}

// IsListingFree decides whether a listing qualifies for free publication.
// The check is containment of the listing's own event start date in the
// configured window, boundaries included. It is not a "today is inside the
// window" check: an event booked ahead for a date inside the window
// qualifies even when created outside it.
func IsListingFree(startDate Date, policy FreePeriodPolicy) bool {
	if !policy.IsActive {
		return false
	}
	if startDate.IsZero() {
		return false
	}
	if policy.FreeListingStart.IsZero() || policy.FreeListingEnd.IsZero() {
		return false
	}
	if startDate.Before(policy.FreeListingStart) {
		return false
	}
	if startDate.After(policy.FreeListingEnd) {
		return false
	}
	return true
}
