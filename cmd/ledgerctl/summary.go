package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"ledger/internal/config"
	"ledger/internal/report"
	"ledger/internal/services"
	ledgervalidator "ledger/internal/validator"
)

type summaryCmd struct {
	user    string
	from    string
	to      string
	account string
	style   string
	width   int
	raw     bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a spending summary for a user" }
func (*summaryCmd) Usage() string {
	return `ledgerctl summary -user <id> [-from yyyy-MM-dd] [-to yyyy-MM-dd] [-account <id>]

  Displays income, expenses and the category and daily breakdowns. Defaults to
  the 30 days ending today.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Owner of the data (auth provider user id)")
	f.StringVar(&c.from, "from", "", "First day of the period")
	f.StringVar(&c.to, "to", "", "Last day of the period (defaults to today)")
	f.StringVar(&c.account, "account", "", "Only this account")
	f.StringVar(&c.style, "style", "", "Glamour style (dark, light, notty); empty picks one from the terminal")
	f.IntVar(&c.width, "width", 100, "Word wrap width")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without styling")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -user is required")
		return subcommands.ExitUsageError
	}
	from, err := parseDay(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := parseDay(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	dateRange, err := services.ResolveDateRange(from, to, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	db := store.DB()

	var accountID *string
	scope := "All accounts"
	if c.account != "" {
		account, err := services.NewAccountService(db).GetAccount(ctx, c.user, c.account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		accountID = &account.ID
		scope = account.Name
	}

	summary, err := services.NewSummaryService(db).Summarize(ctx, c.user, dateRange, accountID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := report.Markdown(summary, appConfig.Currency, scope)
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	out, err := report.Render(md, c.style, c.width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(ledgervalidator.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("expected yyyy-MM-dd, got %q", s)
	}
	return &d, nil
}
