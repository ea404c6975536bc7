package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
)

// PlanTargets returns the subset of ids that exist and are owned by callerID,
// in request order and without duplicates. It only reads; callers pass the
// result to a single set-based statement in the same transaction. An empty
// result is not an error.
func PlanTargets(ctx context.Context, db *gorm.DB, callerID string, ids []string, kind EntityKind) ([]string, error) {
	if len(ids) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ids must contain at least one id")
	}

	requested := dedupe(ids)

	var owned []string
	err := db.WithContext(ctx).
		Table(kind.table()).
		Scopes(ownedBy(kind, callerID)).
		Where(kind.table()+".id IN ?", requested).
		Pluck(kind.table()+".id", &owned).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	found := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		found[id] = struct{}{}
	}
	planned := make([]string, 0, len(owned))
	for _, id := range requested {
		if _, ok := found[id]; ok {
			planned = append(planned, id)
		}
	}
	return planned, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
