package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Product represents the minimal catalog surface the stock ledger needs.
// StockQuantity is mutated only through the atomic add-delta primitive on the
// repository; nothing else in the system writes it.
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(50);uniqueIndex"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku, unit string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		SKU:           sku,
		Unit:          unit,
		StockQuantity: decimal.Zero,
	}, nil
}
