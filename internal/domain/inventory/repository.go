package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository provides access to products and the atomic stock primitive
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Save(ctx context.Context, product *Product) error
	// AdjustStockAtomic applies a signed delta to a product's stock level as a
	// single indivisible statement at the store layer. This is the only legal
	// way to mutate stock; a read-modify-write from the caller cannot be
	// serialized against concurrent receivers.
	AdjustStockAtomic(ctx context.Context, productID uuid.UUID, delta decimal.Decimal) error
}

// StockMovementRepository provides access to the append-only movement log
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
