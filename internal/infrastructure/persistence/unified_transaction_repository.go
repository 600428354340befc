package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormUnifiedTransactionRepository is the GORM implementation of
// finance.UnifiedTransactionRepository
type GormUnifiedTransactionRepository struct {
	db *gorm.DB
}

// NewGormUnifiedTransactionRepository creates a new unified transaction repository
func NewGormUnifiedTransactionRepository(db *gorm.DB) *GormUnifiedTransactionRepository {
	return &GormUnifiedTransactionRepository{db: db}
}

func (r *GormUnifiedTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.UnifiedTransaction, error) {
	var tx finance.UnifiedTransaction
	err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *GormUnifiedTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.UnifiedTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.UnifiedTransaction{})
	if filter.Search != "" {
		query = query.Where("reference_number ILIKE ?", "%"+filter.Search+"%")
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*finance.UnifiedTransaction
	if err := applyPagination(query, filter).Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *GormUnifiedTransactionRepository) Create(ctx context.Context, tx *finance.UnifiedTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *GormUnifiedTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.TransactionStatus) error {
	result := r.db.WithContext(ctx).Model(&finance.UnifiedTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkCompletedByPurchaseOrder completes the processing journal entry linked
// to an order. A missing row is not an error: the order may have been created
// outside the transaction flow.
func (r *GormUnifiedTransactionRepository) MarkCompletedByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&finance.UnifiedTransaction{}).
		Where("purchase_order_id = ? AND status = ?", purchaseOrderID, finance.TransactionStatusProcessing).
		Updates(map[string]interface{}{
			"status":     finance.TransactionStatusCompleted,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

// NextReferenceNumber generates the next sequential transaction reference
// Format: TXN-YYYY-NNNNN (e.g., TXN-2026-00001)
func (r *GormUnifiedTransactionRepository) NextReferenceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("TXN-%d-", year)

	var last finance.UnifiedTransaction
	err := r.db.WithContext(ctx).
		Model(&finance.UnifiedTransaction{}).
		Where("reference_number LIKE ?", prefix+"%").
		Order("reference_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReferenceNumber != "" {
		parts := strings.Split(last.ReferenceNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Rollback invokes the server-side rollback_transaction function, which
// removes the given child records and their dependents in one database
// transaction. Callers fall back to per-step compensation when this fails.
func (r *GormUnifiedTransactionRepository) Rollback(ctx context.Context, expenseID, purchaseOrderID, paymentID *uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("SELECT rollback_transaction(?, ?, ?)", expenseID, purchaseOrderID, paymentID).Error
	if err != nil {
		return fmt.Errorf("rollback_transaction: %w", err)
	}
	return nil
}

func (r *GormUnifiedTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.UnifiedTransaction{}, "id = ?", id).Error
}
