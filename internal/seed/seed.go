// Package seed loads a demo dataset for one user through the regular services,
// so every ownership and uniqueness rule applies to seeded rows too.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/logger"
	"ledger/internal/models"
	"ledger/internal/money"
	"ledger/internal/services"
)

// DefaultDays is the number of days of transactions generated when unset.
const DefaultDays = 30

// Demo categories with the bounds, in major units, of their random amounts.
var categorySpecs = []struct {
	name      string
	low, high float64
}{
	{"Food", 10, 40},
	{"Transport", 5, 25},
	{"Entertainment", 20, 70},
	{"Utilities", 50, 150},
}

var accountNames = []string{"Checking Account", "Savings Account"}

const (
	demoPayee = "Merchant"
	demoNotes = "Sample transaction"
)

// Options controls a seeding run.
type Options struct {
	UserID string
	Days   int
	// Now anchors the last seeded day. Zero means time.Now.
	Now time.Time
	// Rand drives amounts and categories. Nil means a time-seeded source.
	Rand *rand.Rand
}

// Result counts what a run created.
type Result struct {
	Accounts     int
	Categories   int
	Transactions int
}

// Seeder writes demo data through the services.
type Seeder struct {
	accounts     services.AccountServicer
	categories   services.CategoryServicer
	transactions services.TransactionServicer
}

// New creates a Seeder.
func New(accounts services.AccountServicer, categories services.CategoryServicer, transactions services.TransactionServicer) *Seeder {
	return &Seeder{accounts: accounts, categories: categories, transactions: transactions}
}

// Run seeds the demo accounts and categories, reusing any the user already has
// under the same name, then adds one to four transactions per day on the
// checking account.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, fmt.Errorf("seed: user id is required")
	}
	if opts.Days <= 0 {
		opts.Days = DefaultDays
	}
	if opts.Days > services.MaxRangeDays {
		return nil, fmt.Errorf("seed: at most %d days can be seeded", services.MaxRangeDays)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		seed := uint64(opts.Now.UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}

	result := &Result{}
	log := logger.Get()

	accountIDs, created, err := s.ensureAccounts(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}
	result.Accounts = created

	categoryIDs, created, err := s.ensureCategories(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}
	result.Categories = created

	inputs := generateTransactions(opts, accountIDs[0], categoryIDs)
	txs, err := s.transactions.BulkCreateTransactions(ctx, opts.UserID, inputs)
	if err != nil {
		return nil, fmt.Errorf("seed transactions: %w", err)
	}
	result.Transactions = len(txs)

	log.Infow("seeded demo data",
		"user_id", opts.UserID,
		"accounts", result.Accounts,
		"categories", result.Categories,
		"transactions", result.Transactions,
	)
	return result, nil
}

func (s *Seeder) ensureAccounts(ctx context.Context, userID string) ([]string, int, error) {
	existing, err := s.accounts.ListAccounts(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, a := range existing {
		byName[strings.ToLower(a.Name)] = a.ID
	}

	ids := make([]string, 0, len(accountNames))
	created := 0
	for _, name := range accountNames {
		if id, ok := byName[strings.ToLower(name)]; ok {
			ids = append(ids, id)
			continue
		}
		account, err := s.accounts.CreateAccount(ctx, userID, name)
		if err != nil {
			return nil, 0, fmt.Errorf("create account %q: %w", name, err)
		}
		ids = append(ids, account.ID)
		created++
	}
	return ids, created, nil
}

func (s *Seeder) ensureCategories(ctx context.Context, userID string) ([]models.Category, int, error) {
	existing, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]models.Category, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c
	}

	out := make([]models.Category, 0, len(categorySpecs))
	created := 0
	for _, demo := range categorySpecs {
		if c, ok := byName[strings.ToLower(demo.name)]; ok {
			out = append(out, c)
			continue
		}
		c, err := s.categories.CreateCategory(ctx, userID, demo.name)
		if err != nil {
			return nil, 0, fmt.Errorf("create category %q: %w", demo.name, err)
		}
		out = append(out, *c)
		created++
	}
	return out, created, nil
}

func generateTransactions(opts Options, accountID string, categories []models.Category) []services.TransactionInput {
	dateRange := services.DateRange{To: services.TruncateDay(opts.Now)}
	dateRange.From = dateRange.To.AddDate(0, 0, -(opts.Days - 1))

	var inputs []services.TransactionInput
	for day := dateRange.From; !day.After(dateRange.To); day = day.AddDate(0, 0, 1) {
		n := opts.Rand.IntN(4) + 1
		for i := 0; i < n; i++ {
			idx := opts.Rand.IntN(len(categories))
			amount := randomAmount(opts.Rand, categorySpecs[idx].low, categorySpecs[idx].high)
			// Roughly two in five entries are expenses.
			if opts.Rand.Float64() > 0.6 {
				amount = amount.Neg()
			}
			categoryID := categories[idx].ID
			notes := demoNotes
			inputs = append(inputs, services.TransactionInput{
				AccountID:  accountID,
				CategoryID: &categoryID,
				Payee:      demoPayee,
				Amount:     money.ToMinorUnits(amount),
				Notes:      &notes,
				Date:       day,
			})
		}
	}
	return inputs
}

// randomAmount returns a value in [low, high) rounded to cents.
func randomAmount(r *rand.Rand, low, high float64) decimal.Decimal {
	return decimal.NewFromFloat(low + r.Float64()*(high-low)).Round(2)
}
