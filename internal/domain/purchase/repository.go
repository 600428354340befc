package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence contract for purchase orders
type PurchaseOrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByPONumber loads an order by its human-readable number
	FindByPONumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// FindAll returns orders matching the filter, items included
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, int64, error)

	// FindByParty returns all orders for a party
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]*PurchaseOrder, error)

	// Create persists a new order together with any items already on it
	Create(ctx context.Context, order *PurchaseOrder) error

	// CreateItems persists additional items for an existing order
	CreateItems(ctx context.Context, orderID uuid.UUID, items []PurchaseOrderItem) error

	// UpdateStatus sets the order status
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error

	// ApplyItemReceipt atomically increments an item's received quantity.
	// The increment is guarded by the remaining pending quantity in the same
	// statement; shared.ErrOverReceipt is returned when a concurrent receipt
	// already consumed the pending quantity.
	ApplyItemReceipt(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal, receivedAt time.Time) error

	// NextPONumber generates the next sequential order number (PO-YYYY-NNNNN)
	NextPONumber(ctx context.Context) (string, error)

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
