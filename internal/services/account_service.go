package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// ListAccounts returns the caller's accounts ordered by name.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	accounts := []models.Account{}
	err := s.db.WithContext(ctx).
		Scopes(ownedAccounts(userID)).
		Order("lower(name) ASC").
		Order("id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, classifyStoreError(err, accountErrors)
	}
	return accounts, nil
}

// GetAccount retrieves one of the caller's accounts.
func (s *accountService) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Scopes(ownedAccounts(userID)).
		Where("accounts.id = ?", accountID).
		First(&account).Error
	if err != nil {
		return nil, classifyStoreError(err, accountErrors)
	}
	return &account, nil
}

// CreateAccount creates an account. A case-insensitive duplicate name is
// rejected by the store's unique index.
func (s *accountService) CreateAccount(ctx context.Context, userID, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	account := &models.Account{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, classifyStoreError(err, accountErrors)
	}
	return account, nil
}

// UpdateAccount renames one of the caller's accounts.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var account models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Scopes(ownedAccounts(userID)).
			Where("accounts.id = ?", accountID).
			Update("name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAccountNotFound
		}
		return tx.Where("id = ?", accountID).First(&account).Error
	})
	if err != nil {
		return nil, classifyStoreError(err, accountErrors)
	}
	return &account, nil
}

// DeleteAccount deletes one of the caller's accounts together with all of its
// transactions.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := PlanTargets(ctx, tx, userID, []string{accountID}, KindAccount)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return apperrors.ErrAccountNotFound
		}
		return deleteAccounts(tx, userID, ids)
	})
	return classifyStoreError(err, accountErrors)
}

// BulkDeleteAccounts deletes the caller-owned subset of ids and their
// transactions, returning the ids actually deleted.
func (s *accountService) BulkDeleteAccounts(ctx context.Context, userID string, ids []string) ([]string, error) {
	var deleted []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planned, err := PlanTargets(ctx, tx, userID, ids, KindAccount)
		if err != nil {
			return err
		}
		if len(planned) > 0 {
			if err := deleteAccounts(tx, userID, planned); err != nil {
				return err
			}
		}
		deleted = planned
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err, accountErrors)
	}
	return deleted, nil
}

// deleteAccounts removes the transactions of the planned accounts, then the
// accounts themselves. It must run inside a transaction.
func deleteAccounts(tx *gorm.DB, userID string, ids []string) error {
	if err := tx.Where("account_id IN ?", ids).Delete(&models.Transaction{}).Error; err != nil {
		return err
	}
	return tx.Scopes(ownedAccounts(userID)).Where("accounts.id IN ?", ids).Delete(&models.Account{}).Error
}
