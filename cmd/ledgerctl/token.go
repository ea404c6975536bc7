package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"ledger/internal/config"
	"ledger/internal/middleware"
)

type tokenCmd struct {
	user string
	ttl  time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "mint a bearer token for local development" }
func (*tokenCmd) Usage() string {
	return `ledgerctl token -user <id> [-ttl 24h]

  Prints a token signed with JWT_SECRET whose subject is the given user. Use it
  as "Authorization: Bearer <token>" against a development server.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Subject of the token")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "Token lifetime")
}

func (c *tokenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -user is required")
		return subcommands.ExitUsageError
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if appConfig.Env == "production" {
		fmt.Fprintln(os.Stderr, "Error: refusing to mint tokens with ENV=production")
		return subcommands.ExitFailure
	}

	token, err := middleware.IssueToken(appConfig.JWTSecret, appConfig.JWTIssuer, c.user, c.ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
