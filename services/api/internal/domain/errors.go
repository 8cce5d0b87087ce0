package domain

import "errors"

var (
	ErrListingNotFound         = errors.New("listing not found")
	ErrInvalidID               = errors.New("invalid id")
	ErrTitleRequired           = errors.New("title is required")
	ErrDatesRequired           = errors.New("start and end dates are required")
	ErrInvalidDateRange        = errors.New("end date is before start date")
	ErrDateSpanTooLong         = errors.New("sale may not span more than 3 days")
	ErrInvalidDateData         = errors.New("invalid date data")
	ErrInvalidTransition       = errors.New("status transition not allowed")
	ErrTransitionConflict      = errors.New("listing was modified concurrently")
	ErrListingNotEditable      = errors.New("listing can no longer be edited")
	ErrDateEditNotAllowed      = errors.New("dates can only be changed on a draft listing")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrNotOwner                = errors.New("listing belongs to another user")
	ErrPaymentUnavailable      = errors.New("payment gateway unavailable")
)
