package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/money"
	"ledger/internal/services"
)

// SummaryHandler serves spending aggregates.
type SummaryHandler struct {
	summaryService services.SummaryServicer
	currency       string
}

// NewSummaryHandler creates a new SummaryHandler. Display strings are
// formatted in currency.
func NewSummaryHandler(summaryService services.SummaryServicer, currency string) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, currency: currency}
}

// MoneyValue carries an amount in minor units with its decimal and display forms.
type MoneyValue struct {
	Minor   int64  `json:"minor"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

// CategoryTotalResponse is one entry of the category breakdown.
type CategoryTotalResponse struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Total      MoneyValue `json:"total"`
}

// DayTotalResponse is one day of the time series, in minor units.
type DayTotalResponse struct {
	Date     string `json:"date"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

// SummaryResponse is the aggregated view of a date range.
type SummaryResponse struct {
	From          string                  `json:"from"`
	To            string                  `json:"to"`
	Currency      string                  `json:"currency"`
	Income        MoneyValue              `json:"income"`
	Expenses      MoneyValue              `json:"expenses"`
	Net           MoneyValue              `json:"net"`
	Categories    []CategoryTotalResponse `json:"categories"`
	Uncategorized MoneyValue              `json:"uncategorized"`
	Days          []DayTotalResponse      `json:"days"`
}

// SummaryEnvelope wraps a summary.
type SummaryEnvelope struct {
	Data SummaryResponse `json:"data"`
}

func (h *SummaryHandler) moneyValue(minor int64) MoneyValue {
	return MoneyValue{
		Minor:   minor,
		Amount:  money.Decimal(minor),
		Display: money.Format(minor, h.currency),
	}
}

// toSummaryResponse converts a service summary into its wire form.
func (h *SummaryHandler) toSummaryResponse(s *services.Summary) SummaryResponse {
	resp := SummaryResponse{
		From:          formatDate(s.Range.From),
		To:            formatDate(s.Range.To),
		Currency:      h.currency,
		Income:        h.moneyValue(s.Income),
		Expenses:      h.moneyValue(s.Expenses),
		Net:           h.moneyValue(s.Net),
		Uncategorized: h.moneyValue(s.Uncategorized),
		Categories:    make([]CategoryTotalResponse, 0, len(s.Categories)),
		Days:          make([]DayTotalResponse, 0, len(s.Days)),
	}
	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, CategoryTotalResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Total:      h.moneyValue(c.Total),
		})
	}
	for _, d := range s.Days {
		resp.Days = append(resp.Days, DayTotalResponse{
			Date:     formatDate(d.Date),
			Income:   d.Income,
			Expenses: d.Expenses,
		})
	}
	return resp
}

// GetSummary returns totals and breakdowns for a date range
// @Summary     Spending summary
// @Description Income, expenses and net with per-category and per-day breakdowns. Defaults to the 30 days ending today.
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "First day (yyyy-MM-dd)"
// @Param       to        query string false "Last day (yyyy-MM-dd)"
// @Param       accountId query string false "Only this account"
// @Success     200 {object} SummaryEnvelope
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dateRange, err := dateRangeFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.Summarize(c.Request.Context(), userID, dateRange, optionalQuery(c, "accountId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryEnvelope{Data: h.toSummaryResponse(summary)})
}
