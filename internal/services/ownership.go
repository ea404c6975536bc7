package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
)

// EntityKind identifies one of the owned ledger entities.
type EntityKind string

const (
	KindAccount     EntityKind = "account"
	KindCategory    EntityKind = "category"
	KindTransaction EntityKind = "transaction"
)

func (k EntityKind) table() string {
	switch k {
	case KindAccount:
		return "accounts"
	case KindCategory:
		return "categories"
	default:
		return "transactions"
	}
}

// ownedAccounts restricts a query on accounts to the caller's rows.
func ownedAccounts(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("accounts.user_id = ?", userID)
	}
}

// ownedCategories restricts a query on categories to the caller's rows.
func ownedCategories(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("categories.user_id = ?", userID)
	}
}

// ownedTransactions restricts a query on transactions to rows whose account
// belongs to the caller. Transactions have no owner column of their own.
func ownedTransactions(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("transactions.account_id IN (SELECT id FROM accounts WHERE user_id = ?)", userID)
	}
}

func ownedBy(kind EntityKind, userID string) func(*gorm.DB) *gorm.DB {
	switch kind {
	case KindAccount:
		return ownedAccounts(userID)
	case KindCategory:
		return ownedCategories(userID)
	default:
		return ownedTransactions(userID)
	}
}

// Guard answers whether a caller owns an entity. The ownership predicate is
// evaluated by the store in the same query that looks the entity up.
type Guard struct {
	db *gorm.DB
}

// NewGuard creates a Guard over db, which may be a transaction handle.
func NewGuard(db *gorm.DB) Guard {
	return Guard{db: db}
}

// Authorize reports whether id names an entity of the given kind owned by
// callerID. A missing entity and a foreign one both yield false.
func (g Guard) Authorize(ctx context.Context, callerID string, kind EntityKind, id string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Table(kind.table()).
		Scopes(ownedBy(kind, callerID)).
		Where(kind.table()+".id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
