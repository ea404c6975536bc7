package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
)

// Unique index names reported in conflict responses.
const (
	AccountNameConstraint  = "accounts_user_id_name_uniq"
	CategoryNameConstraint = "categories_user_id_name_uniq"
)

// storeErrorMapping tells classifyStoreError which entity errors to use.
type storeErrorMapping struct {
	notFound   *apperrors.AppError
	conflict   *apperrors.AppError
	constraint string
}

var (
	accountErrors     = storeErrorMapping{apperrors.ErrAccountNotFound, apperrors.ErrDuplicateAccountName, AccountNameConstraint}
	categoryErrors    = storeErrorMapping{apperrors.ErrCategoryNotFound, apperrors.ErrDuplicateCategoryName, CategoryNameConstraint}
	transactionErrors = storeErrorMapping{notFound: apperrors.ErrTransactionNotFound}
)

// classifyStoreError converts a storage error into the application taxonomy.
// Raw driver errors never leave the service layer.
func classifyStoreError(err error, m storeErrorMapping) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound) && m.notFound != nil:
		return m.notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && m.conflict != nil:
		return apperrors.WithConstraint(m.conflict, m.constraint, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
