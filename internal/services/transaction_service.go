package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
)

// transactionService handles transaction-related business logic.
// Every statement is scoped through the owning account.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ListTransactions returns the caller's transactions in the filter's date
// range, joined with account and category names, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.TransactionRow, error) {
	if err := filter.Range.Validate(); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.id, transactions.date, transactions.amount, transactions.payee, transactions.notes, " +
			"transactions.account_id, accounts.name AS account, transactions.category_id, categories.name AS category").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ?", userID).
		Where("transactions.date BETWEEN ? AND ?", filter.Range.From, filter.Range.To)

	if filter.AccountID != nil {
		query = query.Where("transactions.account_id = ?", *filter.AccountID)
	}

	rows := []models.TransactionRow{}
	if err := query.Order("transactions.date DESC").Order("transactions.id DESC").Scan(&rows).Error; err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return rows, nil
}

// GetTransaction retrieves one of the caller's transactions.
func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.WithContext(ctx).
		Scopes(ownedTransactions(userID)).
		Where("transactions.id = ?", transactionID).
		First(&transaction).Error
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return &transaction, nil
}

// CreateTransaction records a transaction on one of the caller's accounts.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	transaction := input.toModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(ctx, tx, userID, []TransactionInput{input}); err != nil {
			return err
		}
		return tx.Create(transaction).Error
	})
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return transaction, nil
}

// BulkCreateTransactions records all inputs in one statement, or none of them
// if any input references an account or category the caller does not own.
func (s *transactionService) BulkCreateTransactions(ctx context.Context, userID string, inputs []TransactionInput) ([]models.Transaction, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one transaction is required")
	}

	transactions := make([]models.Transaction, 0, len(inputs))
	for i := range inputs {
		if err := validateTransactionInput(&inputs[i]); err != nil {
			return nil, err
		}
		transactions = append(transactions, *inputs[i].toModel())
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(ctx, tx, userID, inputs); err != nil {
			return err
		}
		return tx.Create(&transactions).Error
	})
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return transactions, nil
}

// UpdateTransaction replaces every mutable field of one of the caller's
// transactions.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	var transaction models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Checked before the write so a missing reference is never a foreign key error.
		if err := requireOwned(ctx, tx, userID, []string{transactionID}, KindTransaction, apperrors.ErrTransactionNotFound); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, userID, []TransactionInput{input}); err != nil {
			return err
		}
		res := tx.Model(&models.Transaction{}).
			Scopes(ownedTransactions(userID)).
			Where("transactions.id = ?", transactionID).
			Updates(map[string]any{
				"account_id":  input.AccountID,
				"category_id": input.CategoryID,
				"payee":       input.Payee,
				"amount":      input.Amount,
				"notes":       input.Notes,
				"date":        input.Date,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		return tx.Where("id = ?", transactionID).First(&transaction).Error
	})
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return &transaction, nil
}

// DeleteTransaction deletes one of the caller's transactions.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	res := s.db.WithContext(ctx).
		Scopes(ownedTransactions(userID)).
		Where("transactions.id = ?", transactionID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return classifyStoreError(res.Error, transactionErrors)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// BulkDeleteTransactions deletes the caller-owned subset of ids, returning
// the ids actually deleted.
func (s *transactionService) BulkDeleteTransactions(ctx context.Context, userID string, ids []string) ([]string, error) {
	var deleted []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planned, err := PlanTargets(ctx, tx, userID, ids, KindTransaction)
		if err != nil {
			return err
		}
		if len(planned) > 0 {
			err := tx.Scopes(ownedTransactions(userID)).
				Where("transactions.id IN ?", planned).
				Delete(&models.Transaction{}).Error
			if err != nil {
				return err
			}
		}
		deleted = planned
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return deleted, nil
}

// BulkUpdateTransactions sets (or clears, when categoryID is nil) the
// category of the caller-owned subset of ids, returning the ids updated.
func (s *transactionService) BulkUpdateTransactions(ctx context.Context, userID string, ids []string, categoryID *string) ([]string, error) {
	var updated []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if categoryID != nil {
			ok, err := NewGuard(tx).Authorize(ctx, userID, KindCategory, *categoryID)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.ErrCategoryNotFound
			}
		}

		planned, err := PlanTargets(ctx, tx, userID, ids, KindTransaction)
		if err != nil {
			return err
		}
		if len(planned) > 0 {
			err := tx.Model(&models.Transaction{}).
				Scopes(ownedTransactions(userID)).
				Where("transactions.id IN ?", planned).
				Update("category_id", categoryID).Error
			if err != nil {
				return err
			}
		}
		updated = planned
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err, transactionErrors)
	}
	return updated, nil
}

// checkReferences verifies that every account and category referenced by
// inputs is owned by the caller, with one query per entity kind.
func checkReferences(ctx context.Context, tx *gorm.DB, userID string, inputs []TransactionInput) error {
	accountIDs := make([]string, 0, len(inputs))
	var categoryIDs []string
	for _, in := range inputs {
		accountIDs = append(accountIDs, in.AccountID)
		if in.CategoryID != nil {
			categoryIDs = append(categoryIDs, *in.CategoryID)
		}
	}

	if err := requireOwned(ctx, tx, userID, accountIDs, KindAccount, apperrors.ErrAccountNotFound); err != nil {
		return err
	}
	if len(categoryIDs) > 0 {
		return requireOwned(ctx, tx, userID, categoryIDs, KindCategory, apperrors.ErrCategoryNotFound)
	}
	return nil
}

func requireOwned(ctx context.Context, tx *gorm.DB, userID string, ids []string, kind EntityKind, notFound *apperrors.AppError) error {
	requested := dedupe(ids)
	if len(requested) == 1 {
		ok, err := NewGuard(tx).Authorize(ctx, userID, kind, requested[0])
		if err != nil {
			return err
		}
		if !ok {
			return notFound
		}
		return nil
	}

	owned, err := PlanTargets(ctx, tx, userID, requested, kind)
	if err != nil {
		return err
	}
	if len(owned) != len(requested) {
		return notFound
	}
	return nil
}

func validateTransactionInput(in *TransactionInput) error {
	in.AccountID = strings.TrimSpace(in.AccountID)
	if in.AccountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "accountId is required")
	}
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) == "" {
		in.CategoryID = nil
	}
	if in.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	in.Date = TruncateDay(in.Date)
	return nil
}

func (in TransactionInput) toModel() *models.Transaction {
	return &models.Transaction{
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		Payee:      in.Payee,
		Amount:     in.Amount,
		Notes:      in.Notes,
		Date:       in.Date,
	}
}
