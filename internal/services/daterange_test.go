package services

import (
	"testing"
	"time"

	"ledger/internal/testutil"
)

func TestDefaultDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	r := DefaultDateRange(now)

	if !r.To.Equal(testutil.Day(2024, 3, 15)) {
		t.Errorf("expected to=2024-03-15, got %s", r.To)
	}
	if !r.From.Equal(testutil.Day(2024, 2, 15)) {
		t.Errorf("expected from=2024-02-15, got %s", r.From)
	}
	if r.Days() != DefaultRangeDays {
		t.Errorf("expected %d days, got %d", DefaultRangeDays, r.Days())
	}
}

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) *time.Time {
		v := testutil.Day(y, m, d)
		return &v
	}

	t.Run("both_bounds", func(t *testing.T) {
		r, err := ResolveDateRange(day(2024, 1, 1), day(2024, 1, 31), now)
		testutil.AssertNoError(t, err)
		if r.Days() != 31 {
			t.Errorf("expected 31 days, got %d", r.Days())
		}
	})

	t.Run("only_to", func(t *testing.T) {
		r, err := ResolveDateRange(nil, day(2024, 1, 30), now)
		testutil.AssertNoError(t, err)
		if !r.From.Equal(testutil.Day(2024, 1, 1)) {
			t.Errorf("expected from=2024-01-01, got %s", r.From)
		}
	})

	t.Run("only_from", func(t *testing.T) {
		r, err := ResolveDateRange(day(2024, 3, 1), nil, now)
		testutil.AssertNoError(t, err)
		if !r.To.Equal(testutil.Day(2024, 3, 15)) {
			t.Errorf("expected to=today, got %s", r.To)
		}
	})

	t.Run("inverted", func(t *testing.T) {
		_, err := ResolveDateRange(day(2024, 3, 2), day(2024, 3, 1), now)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("single_day", func(t *testing.T) {
		r, err := ResolveDateRange(day(2024, 3, 1), day(2024, 3, 1), now)
		testutil.AssertNoError(t, err)
		if r.Days() != 1 {
			t.Errorf("expected 1 day, got %d", r.Days())
		}
	})

	t.Run("too_long", func(t *testing.T) {
		_, err := ResolveDateRange(day(2000, 1, 1), day(2024, 1, 1), now)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}
