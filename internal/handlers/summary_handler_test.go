package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ledger/internal/middleware"
	"ledger/internal/money"
	"ledger/internal/services"
)

type mockSummaryService struct {
	summarizeFn func(userID string, dateRange services.DateRange, accountID *string) (*services.Summary, error)
}

func (m *mockSummaryService) Summarize(_ context.Context, userID string, dateRange services.DateRange, accountID *string) (*services.Summary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(userID, dateRange, accountID)
	}
	return &services.Summary{Range: dateRange}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

func setupSummaryRouter(handler *SummaryHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/summary", injectUserID(testUserID), handler.GetSummary)
	return r
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	t.Run("renders totals and breakdowns", func(t *testing.T) {
		day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		svc := &mockSummaryService{
			summarizeFn: func(userID string, dateRange services.DateRange, accountID *string) (*services.Summary, error) {
				if userID != testUserID {
					t.Errorf("unexpected user %s", userID)
				}
				if accountID == nil || *accountID != "a1" {
					t.Errorf("expected account filter, got %v", accountID)
				}
				return &services.Summary{
					Range:         dateRange,
					Income:        250000,
					Expenses:      -75500,
					Net:           174500,
					Categories:    []services.CategoryTotal{{CategoryID: "c1", Name: "Food", Total: -70000}},
					Uncategorized: 244500,
					Days: []services.DayTotal{
						{Date: day, Income: 250000, Expenses: -75500},
						{Date: day.AddDate(0, 0, 1)},
					},
				}, nil
			},
		}
		r := setupSummaryRouter(NewSummaryHandler(svc, "USD"))

		rec := doRequest(r, http.MethodGet, "/summary?from=2024-05-01&to=2024-05-02&accountId=a1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataObject(t, parseJSON(t, rec))
		if data["from"] != "2024-05-01" || data["to"] != "2024-05-02" || data["currency"] != "USD" {
			t.Errorf("unexpected range: %v", data)
		}

		income := data["income"].(map[string]interface{})
		if income["minor"] != float64(250000) {
			t.Errorf("expected income 250000, got %v", income["minor"])
		}
		if income["amount"] != money.Decimal(250000) || income["display"] != money.Format(250000, "USD") {
			t.Errorf("unexpected income rendering: %v", income)
		}

		categories := data["categories"].([]interface{})
		if len(categories) != 1 || categories[0].(map[string]interface{})["name"] != "Food" {
			t.Errorf("unexpected categories: %v", categories)
		}
		days := data["days"].([]interface{})
		if len(days) != 2 || days[1].(map[string]interface{})["date"] != "2024-05-02" {
			t.Errorf("unexpected days: %v", days)
		}
	})

	t.Run("empty breakdowns are arrays", func(t *testing.T) {
		r := setupSummaryRouter(NewSummaryHandler(&mockSummaryService{}, "EUR"))
		rec := doRequest(r, http.MethodGet, "/summary", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		data := dataObject(t, parseJSON(t, rec))
		if _, ok := data["categories"].([]interface{}); !ok {
			t.Errorf("expected categories array, got %v", data["categories"])
		}
		if _, ok := data["days"].([]interface{}); !ok {
			t.Errorf("expected days array, got %v", data["days"])
		}
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		r := setupSummaryRouter(NewSummaryHandler(&mockSummaryService{}, "USD"))
		rec := doRequest(r, http.MethodGet, "/summary?from=2024-05-02&to=2024-05-01", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})
}
