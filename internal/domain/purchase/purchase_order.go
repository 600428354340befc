package purchase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Status represents the status of a purchase order
type Status string

const (
	StatusDraft           Status = "draft"
	StatusSent            Status = "sent"
	StatusConfirmed       Status = "confirmed"
	StatusPartialReceived Status = "partial_received"
	StatusReceived        Status = "received"
	StatusCancelled       Status = "cancelled"
)

// IsValid checks if the status is a valid purchase order status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusConfirmed, StatusPartialReceived,
		StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent || target == StatusConfirmed || target == StatusCancelled
	case StatusSent:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	case StatusPartialReceived:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	case StatusReceived, StatusCancelled:
		return false
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s Status) CanReceive() bool {
	return s == StatusConfirmed || s == StatusPartialReceived
}

// DeriveStatus computes an order's status from its items' receiving state.
// It is the single source of truth for derived status: received when every
// item's pending quantity is zero, partial_received when at least one item has
// received anything, otherwise the current status is kept.
func DeriveStatus(current Status, items []PurchaseOrderItem) Status {
	if current.IsTerminal() || len(items) == 0 {
		return current
	}

	allReceived := true
	anyReceived := false
	for i := range items {
		if items[i].PendingQuantity().IsPositive() {
			allReceived = false
		}
		if items[i].ReceivedQuantity.IsPositive() {
			anyReceived = true
		}
	}

	switch {
	case allReceived:
		return StatusReceived
	case anyReceived:
		return StatusPartialReceived
	default:
		return current
	}
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        *uuid.UUID      `gorm:"type:uuid;index"` // Optional: free-form items carry no product link
	ItemName         string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:varchar(500)"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit             string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	PricePerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FirstReceivedAt  *time.Time
	LastReceivedAt   *time.Time
	VendorID         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item.
// TotalAmount is quantity*price minus the line discount plus the line tax;
// orders carry no transaction-level tax or discount.
func NewPurchaseOrderItem(orderID uuid.UUID, itemName string, quantity, pricePerUnit decimal.Decimal) (*PurchaseOrderItem, error) {
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		PurchaseOrderID:  orderID,
		ItemName:         itemName,
		Quantity:         quantity,
		Unit:             "pcs",
		PricePerUnit:     pricePerUnit,
		DiscountAmount:   decimal.Zero,
		TaxAmount:        decimal.Zero,
		TotalAmount:      quantity.Mul(pricePerUnit),
		ReceivedQuantity: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// WithUnit sets the unit of measure
func (i *PurchaseOrderItem) WithUnit(unit string) *PurchaseOrderItem {
	if unit != "" {
		i.Unit = unit
	}
	return i
}

// WithProduct links the item to a catalog product
func (i *PurchaseOrderItem) WithProduct(productID uuid.UUID) *PurchaseOrderItem {
	i.ProductID = &productID
	return i
}

// WithVendor sets the vendor supplying this line
func (i *PurchaseOrderItem) WithVendor(vendorID uuid.UUID) *PurchaseOrderItem {
	i.VendorID = &vendorID
	return i
}

// WithDescription sets the line description
func (i *PurchaseOrderItem) WithDescription(description string) *PurchaseOrderItem {
	i.Description = description
	return i
}

// ApplyLineDiscountAndTax sets the line discount and tax and recalculates the total
func (i *PurchaseOrderItem) ApplyLineDiscountAndTax(discount, tax decimal.Decimal) error {
	if discount.IsNegative() || tax.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount and tax cannot be negative")
	}
	gross := i.Quantity.Mul(i.PricePerUnit)
	if discount.GreaterThan(gross) {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot exceed line amount")
	}

	i.DiscountAmount = discount
	i.TaxAmount = tax
	i.TotalAmount = gross.Sub(discount).Add(tax)
	i.UpdatedAt = time.Now()

	return nil
}

// PendingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) PendingQuantity() decimal.Decimal {
	pending := i.Quantity.Sub(i.ReceivedQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// Receive adds to the received quantity and stamps the receipt times.
// ReceivedQuantity is monotonically non-decreasing; over-receipt is rejected
// so repeated partial receipts sum exactly to the ordered quantity.
func (i *PurchaseOrderItem) Receive(quantity decimal.Decimal, now time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	newReceived := i.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(i.Quantity) {
		return shared.NewDomainError("OVER_RECEIPT",
			fmt.Sprintf("Cannot receive %s, only %s pending", quantity.String(), i.PendingQuantity().String()))
	}

	i.ReceivedQuantity = newReceived
	if i.FirstReceivedAt == nil {
		i.FirstReceivedAt = &now
	}
	i.LastReceivedAt = &now
	i.UpdatedAt = now

	return nil
}

// PurchaseOrder represents a commitment to buy specified quantities of items
// from a vendor, fulfilled incrementally via receiving. The aggregate's status
// is a pure function of its items' receiving state (see DeriveStatus).
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber             string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartyID              uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderDate            time.Time           `gorm:"type:date;not null"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Subtotal             decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of item totals
	Status               Status              `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes                string              `gorm:"type:text"`
	ExpectedDeliveryDate *time.Time          `gorm:"type:date"`
	PaymentTerms         string              `gorm:"type:varchar(100)"`
	Priority             string              `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(poNumber string, partyID uuid.UUID, orderDate time.Time) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "PO number cannot be empty")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		PartyID:           partyID,
		OrderDate:         orderDate,
		Items:             make([]PurchaseOrderItem, 0),
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		DiscountAmount:    decimal.Zero,
		FinalAmount:       decimal.Zero,
		Status:            StatusDraft,
	}, nil
}

// AddItem adds a new item to the order. Only allowed before any receiving.
func (o *PurchaseOrder) AddItem(item *PurchaseOrderItem) error {
	if o.Status != StatusDraft && o.Status != StatusSent && o.Status != StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items once receiving has started")
	}

	item.PurchaseOrderID = o.ID
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm moves the order into confirmed status.
// Requires at least one item in the order.
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	o.Status = StatusConfirmed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Cancel cancels the order. Allowed from any non-terminal state, but not after
// goods have been received.
func (o *PurchaseOrder) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// RefreshStatus recomputes and applies the derived status
func (o *PurchaseOrder) RefreshStatus() {
	o.Status = DeriveStatus(o.Status, o.Items)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// GetItem returns an item by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsFullyReceived returns true when every item has zero pending quantity
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Items) == 0 {
		return false
	}
	for i := range o.Items {
		if !o.Items[i].IsFullyReceived() {
			return false
		}
	}
	return true
}

// TotalPendingQuantity returns the total quantity still to be received
func (o *PurchaseOrder) TotalPendingQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].PendingQuantity())
	}
	return total
}

// recalculateTotals recalculates the order totals from its items
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	final := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Quantity.Mul(o.Items[i].PricePerUnit))
		tax = tax.Add(o.Items[i].TaxAmount)
		discount = discount.Add(o.Items[i].DiscountAmount)
		final = final.Add(o.Items[i].TotalAmount)
	}
	o.Subtotal = subtotal
	o.TaxAmount = tax
	o.DiscountAmount = discount
	o.FinalAmount = final
}

// hasReceivedAnyGoods checks if any goods have been received
func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for i := range o.Items {
		if o.Items[i].ReceivedQuantity.IsPositive() {
			return true
		}
	}
	return false
}
