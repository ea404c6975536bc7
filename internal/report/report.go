// Package report renders a spending summary as markdown for terminals.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"ledger/internal/money"
	"ledger/internal/services"
	ledgervalidator "ledger/internal/validator"
)

// Markdown renders s as a markdown document. Amounts are shown in currency;
// scope names what the summary covers, e.g. an account name.
func Markdown(s *services.Summary, currency, scope string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Summary %s to %s\n\n", day(s.Range.From), day(s.Range.To))
	if scope != "" {
		fmt.Fprintf(&b, "_%s_\n\n", scope)
	}

	b.WriteString("| | Amount |\n|:--|--:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", money.Format(s.Income, currency))
	fmt.Fprintf(&b, "| Expenses | %s |\n", money.Format(s.Expenses, currency))
	fmt.Fprintf(&b, "| **Net** | **%s** |\n\n", money.Format(s.Net, currency))

	b.WriteString("## Categories\n\n")
	if len(s.Categories) == 0 && s.Uncategorized == 0 {
		b.WriteString("No categorized activity.\n\n")
	} else {
		b.WriteString("| Category | Total |\n|:--|--:|\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(c.Name), money.Format(c.Total, currency))
		}
		if s.Uncategorized != 0 {
			fmt.Fprintf(&b, "| _Uncategorized_ | %s |\n", money.Format(s.Uncategorized, currency))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Daily activity\n\n")
	active := 0
	for _, d := range s.Days {
		if d.Income == 0 && d.Expenses == 0 {
			continue
		}
		if active == 0 {
			b.WriteString("| Date | Income | Expenses |\n|:--|--:|--:|\n")
		}
		active++
		fmt.Fprintf(&b, "| %s | %s | %s |\n", day(d.Date),
			money.Format(d.Income, currency), money.Format(d.Expenses, currency))
	}
	if active == 0 {
		b.WriteString("No transactions in this period.\n")
	}

	return b.String()
}

// Render styles markdown for a terminal. An empty style picks one from the
// terminal background; width 0 disables wrapping.
func Render(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func day(t time.Time) string {
	return t.Format(ledgervalidator.DateLayout)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
