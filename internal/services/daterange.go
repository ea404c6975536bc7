package services

import (
	"time"

	apperrors "ledger/internal/errors"
)

const (
	// DefaultRangeDays is the length of the window used when no dates are given.
	DefaultRangeDays = 30
	// MaxRangeDays bounds the zero-filled daily series of a summary.
	MaxRangeDays = 3660
)

// DateRange is an inclusive range of calendar dates, both at 00:00 UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TruncateDay returns the calendar date of t at 00:00 UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultDateRange returns the DefaultRangeDays days ending on the date of now.
func DefaultDateRange(now time.Time) DateRange {
	to := TruncateDay(now)
	return DateRange{From: to.AddDate(0, 0, -(DefaultRangeDays - 1)), To: to}
}

// ResolveDateRange fills in missing bounds and validates the result.
// A missing "to" is today; a missing "from" is DefaultRangeDays before "to".
func ResolveDateRange(from, to *time.Time, now time.Time) (DateRange, error) {
	r := DefaultDateRange(now)
	if to != nil {
		r.To = TruncateDay(*to)
		r.From = r.To.AddDate(0, 0, -(DefaultRangeDays - 1))
	}
	if from != nil {
		r.From = TruncateDay(*from)
	}
	return r, r.Validate()
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// Validate rejects inverted and oversized ranges.
func (r DateRange) Validate() error {
	if r.To.Before(r.From) {
		return apperrors.WithMessage(apperrors.ErrInvalidDateRange, "to must not be before from")
	}
	if r.Days() > MaxRangeDays {
		return apperrors.WithMessage(apperrors.ErrInvalidDateRange, "date range is too long")
	}
	return nil
}
