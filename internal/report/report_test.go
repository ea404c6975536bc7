package report

import (
	"strings"
	"testing"

	"ledger/internal/money"
	"ledger/internal/services"
	"ledger/internal/testutil"
)

func sampleSummary() *services.Summary {
	from := testutil.Day(2024, 3, 1)
	return &services.Summary{
		Range:    services.DateRange{From: from, To: from.AddDate(0, 0, 2)},
		Income:   5000000,
		Expenses: -1234560,
		Net:      3765440,
		Categories: []services.CategoryTotal{
			{CategoryID: "c1", Name: "Rent | Home", Total: -1000000},
			{CategoryID: "c2", Name: "Food", Total: -234560},
		},
		Uncategorized: 5000000,
		Days: []services.DayTotal{
			{Date: from, Income: 5000000, Expenses: -1000000},
			{Date: from.AddDate(0, 0, 1)},
			{Date: from.AddDate(0, 0, 2), Expenses: -234560},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleSummary(), "USD", "Checking")

	for _, want := range []string{
		"# Summary 2024-03-01 to 2024-03-03",
		"_Checking_",
		"| Income | " + money.Format(5000000, "USD") + " |",
		"| **Net** | **" + money.Format(3765440, "USD") + "** |",
		`| Rent \| Home |`,
		"| _Uncategorized_ |",
		"| 2024-03-03 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "| 2024-03-02 |") {
		t.Error("days without activity should be omitted")
	}
	if strings.Index(md, "Rent") > strings.Index(md, "Food") {
		t.Error("expected category order to be preserved")
	}
}

func TestMarkdown_Empty(t *testing.T) {
	from := testutil.Day(2024, 3, 1)
	md := Markdown(&services.Summary{
		Range: services.DateRange{From: from, To: from},
		Days:  []services.DayTotal{{Date: from}},
	}, "EUR", "")

	if !strings.Contains(md, "No categorized activity.") || !strings.Contains(md, "No transactions in this period.") {
		t.Errorf("unexpected empty report:\n%s", md)
	}
}

func TestRender(t *testing.T) {
	out, err := Render(Markdown(sampleSummary(), "USD", ""), "notty", 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Summary 2024-03-01 to 2024-03-03") {
		t.Errorf("expected heading in rendered output:\n%s", out)
	}
	if !strings.Contains(out, "Food") {
		t.Errorf("expected category in rendered output:\n%s", out)
	}
}
