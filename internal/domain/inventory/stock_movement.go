package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	// MovementTypeIn represents stock coming in (purchase receiving)
	MovementTypeIn MovementType = "in"
	// MovementTypeOut represents stock going out
	MovementTypeOut MovementType = "out"
	// MovementTypeDirect represents a direct correction outside normal flows
	MovementTypeDirect MovementType = "direct"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeDirect:
		return true
	}
	return false
}

// MovementProvenance links a stock movement back to the document that caused it
type MovementProvenance struct {
	PurchaseOrderID     *uuid.UUID
	PurchaseOrderItemID *uuid.UUID
	PartyID             *uuid.UUID
}

// StockMovement represents an immutable audit record of a change in a
// product's on-hand quantity. Movements are append-only; ordinary flows never
// delete them.
type StockMovement struct {
	shared.BaseEntity
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType        MovementType    `gorm:"type:varchar(10);not null"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction determined by type
	Reason              string          `gorm:"type:varchar(255)"`
	PurchaseOrderID     *uuid.UUID      `gorm:"type:uuid;index"`
	PurchaseOrderItemID *uuid.UUID      `gorm:"type:uuid;index"`
	PartyID             *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy           *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(productID uuid.UUID, movementType MovementType, quantity decimal.Decimal, reason string) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		MovementType: movementType,
		Quantity:     quantity,
		Reason:       reason,
	}, nil
}

// WithProvenance links the movement to its source document
func (m *StockMovement) WithProvenance(p MovementProvenance) *StockMovement {
	m.PurchaseOrderID = p.PurchaseOrderID
	m.PurchaseOrderItemID = p.PurchaseOrderItemID
	m.PartyID = p.PartyID
	return m
}

// WithCreatedBy sets the actor that caused the movement
func (m *StockMovement) WithCreatedBy(userID uuid.UUID) *StockMovement {
	m.CreatedBy = &userID
	return m
}

// SignedQuantity returns the quantity with sign based on movement type
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.MovementType == MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// MovementTypeForDelta returns the movement type matching a signed quantity change
func MovementTypeForDelta(delta decimal.Decimal) MovementType {
	if delta.IsNegative() {
		return MovementTypeOut
	}
	return MovementTypeIn
}
