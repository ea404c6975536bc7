package services

import (
	"context"
	"testing"

	"ledger/internal/testutil"
)

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSummaryService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID)
		day := testutil.Day(2024, 5, 10)
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, 5000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, -3000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, -2000, day.AddDate(0, 0, 1))

		summary, err := svc.Summarize(ctx, userID, DateRange{From: day, To: day.AddDate(0, 0, 1)}, nil)
		testutil.AssertNoError(t, err)

		if summary.Income != 5000 {
			t.Errorf("expected income 5000, got %d", summary.Income)
		}
		if summary.Expenses != -5000 {
			t.Errorf("expected expenses -5000, got %d", summary.Expenses)
		}
		if summary.Net != 0 {
			t.Errorf("expected net 0, got %d", summary.Net)
		}
		if summary.Uncategorized != 0 {
			t.Errorf("expected uncategorized net 0, got %d", summary.Uncategorized)
		}
	})

	t.Run("zero_filled_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSummaryService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID)
		from := testutil.Day(2024, 2, 27)
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, 700, testutil.Day(2024, 2, 29))
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, -300, testutil.Day(2024, 2, 29))

		summary, err := svc.Summarize(ctx, userID, DateRange{From: from, To: testutil.Day(2024, 3, 2)}, nil)
		testutil.AssertNoError(t, err)

		if len(summary.Days) != 5 {
			t.Fatalf("expected 5 day buckets, got %d", len(summary.Days))
		}
		for i, d := range summary.Days {
			if !d.Date.Equal(from.AddDate(0, 0, i)) {
				t.Errorf("bucket %d: expected %s, got %s", i, from.AddDate(0, 0, i), d.Date)
			}
		}
		leap := summary.Days[2]
		if leap.Income != 700 || leap.Expenses != -300 {
			t.Errorf("expected 700/-300 on Feb 29, got %d/%d", leap.Income, leap.Expenses)
		}
		if summary.Days[0].Income != 0 || summary.Days[4].Expenses != 0 {
			t.Error("expected empty days to be zero")
		}
	})

	t.Run("category_breakdown_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSummaryService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID)
		rent := testutil.CreateTestCategoryWithName(t, db, userID, "Rent")
		food := testutil.CreateTestCategoryWithName(t, db, userID, "Food")
		fun := testutil.CreateTestCategoryWithName(t, db, userID, "Fun")
		salary := testutil.CreateTestCategoryWithName(t, db, userID, "Salary")
		day := testutil.Day(2024, 1, 1)

		testutil.CreateTestTransactionOn(t, db, account.ID, &rent.ID, -90000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, &food.ID, -4000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, &food.ID, -1000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, &fun.ID, -5000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, &salary.ID, 250000, day)
		testutil.CreateTestTransactionOn(t, db, account.ID, nil, -123, day)

		summary, err := svc.Summarize(ctx, userID, DateRange{From: day, To: day}, nil)
		testutil.AssertNoError(t, err)

		want := []struct {
			name  string
			total int64
		}{
			{"Salary", 250000},
			{"Rent", -90000},
			{"Food", -5000},
			{"Fun", -5000},
		}
		if len(summary.Categories) != len(want) {
			t.Fatalf("expected %d categories, got %d", len(want), len(summary.Categories))
		}
		for i, w := range want {
			got := summary.Categories[i]
			if got.Name != w.name || got.Total != w.total {
				t.Errorf("position %d: expected %s=%d, got %s=%d", i, w.name, w.total, got.Name, got.Total)
			}
		}
		if summary.Uncategorized != -123 {
			t.Errorf("expected uncategorized -123, got %d", summary.Uncategorized)
		}
	})

	t.Run("scoped_to_owner_and_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSummaryService(db)
		userID := testutil.NewUserID()
		first := testutil.CreateTestAccount(t, db, userID)
		second := testutil.CreateTestAccount(t, db, userID)
		foreign := testutil.CreateTestAccount(t, db, testutil.NewUserID())
		day := testutil.Day(2024, 1, 1)
		testutil.CreateTestTransactionOn(t, db, first.ID, nil, 100, day)
		testutil.CreateTestTransactionOn(t, db, second.ID, nil, 1000, day)
		testutil.CreateTestTransactionOn(t, db, foreign.ID, nil, 10000, day)

		summary, err := svc.Summarize(ctx, userID, DateRange{From: day, To: day}, nil)
		testutil.AssertNoError(t, err)
		if summary.Income != 1100 {
			t.Errorf("expected income 1100, got %d", summary.Income)
		}

		summary, err = svc.Summarize(ctx, userID, DateRange{From: day, To: day}, &second.ID)
		testutil.AssertNoError(t, err)
		if summary.Income != 1000 {
			t.Errorf("expected income 1000 for second account, got %d", summary.Income)
		}
	})

	t.Run("invalid_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSummaryService(db)

		_, err := svc.Summarize(ctx, testutil.NewUserID(), DateRange{From: testutil.Day(2024, 1, 2), To: testutil.Day(2024, 1, 1)}, nil)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")

		_, err = svc.Summarize(ctx, testutil.NewUserID(), DateRange{From: testutil.Day(2000, 1, 1), To: testutil.Day(2024, 1, 1)}, nil)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}

func TestParseCalendarDay(t *testing.T) {
	want := testutil.Day(2024, 5, 10)
	for _, raw := range []string{
		"2024-05-10T00:00:00Z",
		"2024-05-10 00:00:00+00:00",
		"2024-05-10T00:00:00+00:00",
		"2024-05-10 00:00:00",
		"2024-05-10",
	} {
		got, err := parseCalendarDay(raw)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", raw, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("%q: expected %s, got %s", raw, want, got)
		}
	}

	if _, err := parseCalendarDay("10/05/2024"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestFillDays_RejectsUnparsableDate(t *testing.T) {
	day := testutil.Day(2024, 5, 10)
	_, err := fillDays(DateRange{From: day, To: day}, []dayRow{{Date: "not a date", Income: 1}})
	if err == nil {
		t.Fatal("expected error for unparsable date")
	}
}
