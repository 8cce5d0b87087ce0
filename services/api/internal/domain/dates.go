package domain

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or zone component. Listing
// validity and free-period checks are whole-day decisions, so every date
// that enters the engine is reduced to this type first.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the calendar date for the given components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.startOfDay().AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.startOfDay().Sub(d.startOfDay()) / (24 * time.Hour))
}

// StartOfDay returns the first instant of the date (00:00:00.000 UTC).
func (d Date) StartOfDay() time.Time {
	return d.startOfDay()
}

// EndOfDay returns the last instant of the date (23:59:59.999999999 UTC).
// Validity comparisons include the whole final day of an event, so a
// listing is never hidden on the last day it runs.
func (d Date) EndOfDay() time.Time {
	return d.startOfDay().AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (d Date) startOfDay() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeValued is implemented by wrapped timestamp values (driver and SDK
// types) that can surface a time.Time.
type TimeValued interface {
	Time() time.Time
}

const calendarDateLayout = "2006-01-02"

// NormalizeDate reduces any of the accepted date representations to a Date:
// a native time.Time (or pointer), a calendar-date or RFC 3339 string, a
// wrapped timestamp exposing Time(), or a Date itself. Every comparison in
// the engine routes through this single conversion. A nil pointer or empty
// string normalizes to the zero Date; anything else unparseable returns
// ErrInvalidDateData.
func NormalizeDate(v any) (Date, error) {
	switch val := v.(type) {
	case nil:
		return Date{}, nil
	case Date:
		return val, nil
	case time.Time:
		if val.IsZero() {
			return Date{}, nil
		}
		return DateOf(val), nil
	case *time.Time:
		if val == nil || val.IsZero() {
			return Date{}, nil
		}
		return DateOf(*val), nil
	case string:
		if val == "" {
			return Date{}, nil
		}
		if t, err := time.Parse(calendarDateLayout, val); err == nil {
			return DateOf(t), nil
		}
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return DateOf(t), nil
		}
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateData, val)
	case TimeValued:
		return DateOf(val.Time()), nil
	default:
		return Date{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDateData, v)
	}
}
