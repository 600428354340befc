package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormExpenseRepository is the GORM implementation of finance.ExpenseRepository
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new expense repository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var expense finance.Expense
	err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *GormExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.Expense{})
	if filter.Search != "" {
		query = query.Where("category ILIKE ? OR description ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []*finance.Expense
	if err := applyPagination(query, filter).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *GormExpenseRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Expense, error) {
	var expenses []*finance.Expense
	err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("expense_date DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// Delete removes an expense. Used by saga compensation only.
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.Expense{}, "id = ?", id).Error
}
