package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns the caller's categories ordered by name.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).
		Scopes(ownedCategories(userID)).
		Order("lower(name) ASC").
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, classifyStoreError(err, categoryErrors)
	}
	return categories, nil
}

// GetCategory retrieves one of the caller's categories.
func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Scopes(ownedCategories(userID)).
		Where("categories.id = ?", categoryID).
		First(&category).Error
	if err != nil {
		return nil, classifyStoreError(err, categoryErrors)
	}
	return &category, nil
}

// CreateCategory creates a category.
func (s *categoryService) CreateCategory(ctx context.Context, userID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	category := &models.Category{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, classifyStoreError(err, categoryErrors)
	}
	return category, nil
}

// UpdateCategory renames one of the caller's categories.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Category{}).
			Scopes(ownedCategories(userID)).
			Where("categories.id = ?", categoryID).
			Update("name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrCategoryNotFound
		}
		return tx.Where("id = ?", categoryID).First(&category).Error
	})
	if err != nil {
		return nil, classifyStoreError(err, categoryErrors)
	}
	return &category, nil
}

// DeleteCategory deletes one of the caller's categories. Its transactions
// are kept and become uncategorized.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := PlanTargets(ctx, tx, userID, []string{categoryID}, KindCategory)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return apperrors.ErrCategoryNotFound
		}
		return deleteCategories(tx, userID, ids)
	})
	return classifyStoreError(err, categoryErrors)
}

// BulkDeleteCategories deletes the caller-owned subset of ids, returning the
// ids actually deleted.
func (s *categoryService) BulkDeleteCategories(ctx context.Context, userID string, ids []string) ([]string, error) {
	var deleted []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planned, err := PlanTargets(ctx, tx, userID, ids, KindCategory)
		if err != nil {
			return err
		}
		if len(planned) > 0 {
			if err := deleteCategories(tx, userID, planned); err != nil {
				return err
			}
		}
		deleted = planned
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err, categoryErrors)
	}
	return deleted, nil
}

// deleteCategories clears the category of every transaction referencing the
// planned categories, then deletes them. It must run inside a transaction.
func deleteCategories(tx *gorm.DB, userID string, ids []string) error {
	err := tx.Model(&models.Transaction{}).
		Where("category_id IN ?", ids).
		Update("category_id", nil).Error
	if err != nil {
		return err
	}
	return tx.Scopes(ownedCategories(userID)).Where("categories.id IN ?", ids).Delete(&models.Category{}).Error
}
