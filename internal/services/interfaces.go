package services

import (
	"context"
	"time"

	"ledger/internal/models"
)

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error)
	CreateAccount(ctx context.Context, userID, name string) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID, name string) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
	BulkDeleteAccounts(ctx context.Context, userID string, ids []string) ([]string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error)
	CreateCategory(ctx context.Context, userID, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	BulkDeleteCategories(ctx context.Context, userID string, ids []string) ([]string, error)
}

// TransactionFilter holds the parameters for listing transactions.
type TransactionFilter struct {
	Range     DateRange
	AccountID *string
}

// TransactionInput holds the caller-supplied fields of a transaction.
// It is used for create and for full replacement on update.
type TransactionInput struct {
	AccountID  string
	CategoryID *string
	Payee      string
	Amount     int64
	Notes      *string
	Date       time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.TransactionRow, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error)
	BulkCreateTransactions(ctx context.Context, userID string, inputs []TransactionInput) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	BulkDeleteTransactions(ctx context.Context, userID string, ids []string) ([]string, error)
	BulkUpdateTransactions(ctx context.Context, userID string, ids []string, categoryID *string) ([]string, error)
}

// SummaryServicer defines the contract for spending aggregation.
type SummaryServicer interface {
	Summarize(ctx context.Context, userID string, dateRange DateRange, accountID *string) (*Summary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
