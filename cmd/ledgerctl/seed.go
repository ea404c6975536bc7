package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledger/internal/seed"
	"ledger/internal/services"
)

type seedCmd struct {
	user string
	days int
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "load demo accounts, categories and transactions for a user" }
func (*seedCmd) Usage() string {
	return `ledgerctl seed -user <id> [-days n]

  Creates the demo accounts and categories (reusing existing ones with the same
  names) and adds random transactions for the last n days.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Owner of the seeded data (auth provider user id)")
	f.IntVar(&c.days, "days", seed.DefaultDays, "Number of days of transactions")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -user is required")
		return subcommands.ExitUsageError
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	db := store.DB()
	seeder := seed.New(
		services.NewAccountService(db),
		services.NewCategoryService(db),
		services.NewTransactionService(db),
	)
	result, err := seeder.Run(ctx, seed.Options{UserID: c.user, Days: c.days})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created %d account(s), %d category(ies) and %d transaction(s) for %s\n",
		result.Accounts, result.Categories, result.Transactions, c.user)
	return subcommands.ExitSuccess
}
