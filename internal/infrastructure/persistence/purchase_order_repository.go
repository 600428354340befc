package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository is the GORM implementation of purchase.PurchaseOrderRepository
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new purchase order repository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByPONumber loads an order by its human-readable number
func (r *GormPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "po_number = ?", poNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns orders matching the filter, items included
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*purchase.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{})
	if filter.Search != "" {
		query = query.Where("po_number ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if partyID, ok := filter.Filters["party_id"]; ok {
		query = query.Where("party_id = ?", partyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*purchase.PurchaseOrder
	if err := applyPagination(query, filter).Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindByParty returns all orders for a party
func (r *GormPurchaseOrderRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*purchase.PurchaseOrder, error) {
	var orders []*purchase.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

// Create persists a new order together with any items already on it
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateItems persists additional items for an existing order and refreshes
// the order totals from the full item set
func (r *GormPurchaseOrderRepository) CreateItems(ctx context.Context, orderID uuid.UUID, items []purchase.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			items[i].PurchaseOrderID = orderID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		final := decimal.Zero
		subtotal := decimal.Zero
		taxTotal := decimal.Zero
		discountTotal := decimal.Zero
		var all []purchase.PurchaseOrderItem
		if err := tx.Where("purchase_order_id = ?", orderID).Find(&all).Error; err != nil {
			return err
		}
		for i := range all {
			subtotal = subtotal.Add(all[i].Quantity.Mul(all[i].PricePerUnit))
			taxTotal = taxTotal.Add(all[i].TaxAmount)
			discountTotal = discountTotal.Add(all[i].DiscountAmount)
			final = final.Add(all[i].TotalAmount)
		}
		return tx.Model(&purchase.PurchaseOrder{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"subtotal":        subtotal,
				"tax_amount":      taxTotal,
				"discount_amount": discountTotal,
				"final_amount":    final,
			}).Error
	})
}

// UpdateStatus sets the order status
func (r *GormPurchaseOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status purchase.Status) error {
	result := r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
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

// ApplyItemReceipt increments an item's received quantity, guarded by the
// remaining pending quantity in the same statement. Zero rows affected means
// a concurrent receipt consumed the pending quantity first.
func (r *GormPurchaseOrderRepository) ApplyItemReceipt(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal, receivedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&purchase.PurchaseOrderItem{}).
		Where("id = ? AND quantity - received_quantity >= ?", itemID, quantity).
		Updates(map[string]interface{}{
			"received_quantity": gorm.Expr("received_quantity + ?", quantity),
			"first_received_at": gorm.Expr("COALESCE(first_received_at, ?)", receivedAt),
			"last_received_at":  receivedAt,
			"updated_at":        receivedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOverReceipt
	}
	return nil
}

// NextPONumber generates the next sequential order number
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormPurchaseOrderRepository) NextPONumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var last purchase.PurchaseOrder
	err := r.db.WithContext(ctx).
		Model(&purchase.PurchaseOrder{}).
		Where("po_number LIKE ?", prefix+"%").
		Order("po_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.PONumber != "" {
		parts := strings.Split(last.PONumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Delete removes an order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&purchase.PurchaseOrderItem{}, "purchase_order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&purchase.PurchaseOrder{}, "id = ?", id).Error
	})
}
