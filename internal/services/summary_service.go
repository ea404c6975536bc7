package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"ledger/internal/models"
)

// CategoryTotal is the sum of a category's transactions over a range.
type CategoryTotal struct {
	CategoryID string
	Name       string
	Total      int64
}

// DayTotal holds the income and expenses of one calendar day.
type DayTotal struct {
	Date     time.Time
	Income   int64
	Expenses int64
}

// Summary aggregates the caller's transactions over a date range.
// All amounts are in minor units.
type Summary struct {
	Range         DateRange
	Income        int64
	Expenses      int64
	Net           int64
	Categories    []CategoryTotal
	Uncategorized int64
	Days          []DayTotal
}

// dayRow.Date is scanned as text: drivers disagree on the type of a grouped
// date column, and database/sql renders a time.Time source as RFC 3339.
type dayRow struct {
	Date     string
	Income   int64
	Expenses int64
}

var calendarDayLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseCalendarDay parses a stored date and truncates it to its UTC day.
func parseCalendarDay(s string) (time.Time, error) {
	for _, layout := range calendarDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse calendar day %q", s)
}

type categoryRow struct {
	CategoryID *string
	Name       *string
	Total      int64
}

// summaryService computes date-ranged aggregates from the transaction store.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// Summarize computes totals and the per-category and per-day breakdowns.
// The two grouped queries run concurrently.
func (s *summaryService) Summarize(ctx context.Context, userID string, dateRange DateRange, accountID *string) (*Summary, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	var (
		days       []dayRow
		categories []categoryRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.scoped(gctx, userID, dateRange, accountID).
			Select("transactions.date AS date, " +
				"CAST(SUM(CASE WHEN transactions.amount > 0 THEN transactions.amount ELSE 0 END) AS BIGINT) AS income, " +
				"CAST(SUM(CASE WHEN transactions.amount < 0 THEN transactions.amount ELSE 0 END) AS BIGINT) AS expenses").
			Group("transactions.date").
			Scan(&days).Error
	})
	g.Go(func() error {
		return s.scoped(gctx, userID, dateRange, accountID).
			Select("transactions.category_id AS category_id, categories.name AS name, " +
				"CAST(SUM(transactions.amount) AS BIGINT) AS total").
			Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
			Group("transactions.category_id, categories.name").
			Scan(&categories).Error
	})
	if err := g.Wait(); err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}

	filled, err := fillDays(dateRange, days)
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	summary := &Summary{Range: dateRange, Days: filled}
	for _, d := range summary.Days {
		summary.Income += d.Income
		summary.Expenses += d.Expenses
	}
	summary.Net = summary.Income + summary.Expenses

	summary.Categories = make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		if c.CategoryID == nil {
			summary.Uncategorized += c.Total
			continue
		}
		name := ""
		if c.Name != nil {
			name = *c.Name
		}
		summary.Categories = append(summary.Categories, CategoryTotal{CategoryID: *c.CategoryID, Name: name, Total: c.Total})
	}
	sortCategoryTotals(summary.Categories)

	return summary, nil
}

func (s *summaryService) scoped(ctx context.Context, userID string, dateRange DateRange, accountID *string) *gorm.DB {
	q := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Scopes(ownedTransactions(userID)).
		Where("transactions.date BETWEEN ? AND ?", dateRange.From, dateRange.To)
	if accountID != nil {
		q = q.Where("transactions.account_id = ?", *accountID)
	}
	return q
}

// fillDays returns one bucket per day of r, zero for days without rows.
func fillDays(r DateRange, rows []dayRow) ([]DayTotal, error) {
	byDay := make(map[time.Time]dayRow, len(rows))
	for _, row := range rows {
		day, err := parseCalendarDay(row.Date)
		if err != nil {
			return nil, err
		}
		acc := byDay[day]
		acc.Income += row.Income
		acc.Expenses += row.Expenses
		byDay[day] = acc
	}

	out := make([]DayTotal, 0, r.Days())
	for day := r.From; !day.After(r.To); day = day.AddDate(0, 0, 1) {
		row := byDay[day]
		out = append(out, DayTotal{Date: day, Income: row.Income, Expenses: row.Expenses})
	}
	return out, nil
}

// sortCategoryTotals orders by absolute total descending, then name ascending.
func sortCategoryTotals(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		ai, aj := absInt64(totals[i].Total), absInt64(totals[j].Total)
		if ai != aj {
			return ai > aj
		}
		return totals[i].Name < totals[j].Name
	})
}

func absInt64(v int64) uint64 {
	if v < 0 {
		if v == math.MinInt64 {
			return uint64(math.MaxInt64) + 1
		}
		return uint64(-v)
	}
	return uint64(v)
}
