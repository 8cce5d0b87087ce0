package clock

import (
	"time"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// Clock allows injecting time in domain/services.
type Clock interface {
	Now() time.Time
}

// Today returns the calendar date of the clock's current instant. Validity
// and sweep decisions are whole-day decisions, so services reference this
// rather than raw instants.
func Today(c Clock) domain.Date {
	return domain.DateOf(c.Now())
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
