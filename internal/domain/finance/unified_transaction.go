package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// TransactionStatus represents the lifecycle state of a unified transaction
type TransactionStatus string

const (
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// IsValid checks if the status is a valid transaction status
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusProcessing, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Well-known transaction categories. A category determines which child record
// the transaction links to: vendor orders link a purchase order, vendor
// payments link a party payment, everything else links an expense.
const (
	CategoryVendorOrder   = "Vendor Order"
	CategoryVendorPayment = "Vendor Payment"
)

// UnifiedTransaction is the journal header written once per intake request.
// It links to exactly one child record, chosen by its category, and carries a
// snapshot of the monetary totals at intake time.
type UnifiedTransaction struct {
	shared.BaseAggregateRoot
	ReferenceNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category        string            `gorm:"type:varchar(100);not null;index"`
	TransactionDate time.Time         `gorm:"type:date;not null;index"`
	Amount          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TaxAmount       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	PartyID         *uuid.UUID        `gorm:"type:uuid;index"`
	ExpenseID       *uuid.UUID        `gorm:"type:uuid"`
	PurchaseOrderID *uuid.UUID        `gorm:"type:uuid"`
	PartyPaymentID  *uuid.UUID        `gorm:"type:uuid"`
	Notes           string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UnifiedTransaction) TableName() string {
	return "unified_transactions"
}

// NewUnifiedTransaction creates a transaction header in processing status
func NewUnifiedTransaction(referenceNumber, category string, transactionDate time.Time, amount, tax, discount decimal.Decimal) (*UnifiedTransaction, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}
	if tax.IsNegative() || discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Tax and discount cannot be negative")
	}

	final := amount.Add(tax).Sub(discount)
	if final.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Final amount cannot be negative")
	}

	return &UnifiedTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Category:          category,
		TransactionDate:   transactionDate,
		Amount:            amount,
		TaxAmount:         tax,
		DiscountAmount:    discount,
		FinalAmount:       final,
		Status:            TransactionStatusProcessing,
	}, nil
}

// WithParty links the transaction to a party
func (t *UnifiedTransaction) WithParty(partyID uuid.UUID) *UnifiedTransaction {
	t.PartyID = &partyID
	return t
}

// WithNotes sets free-form notes
func (t *UnifiedTransaction) WithNotes(notes string) *UnifiedTransaction {
	t.Notes = notes
	return t
}

// LinkExpense attaches the expense created for this transaction
func (t *UnifiedTransaction) LinkExpense(expenseID uuid.UUID) {
	t.ExpenseID = &expenseID
}

// LinkPurchaseOrder attaches the purchase order created for this transaction
func (t *UnifiedTransaction) LinkPurchaseOrder(orderID uuid.UUID) {
	t.PurchaseOrderID = &orderID
}

// LinkPartyPayment attaches the party payment created for this transaction
func (t *UnifiedTransaction) LinkPartyPayment(paymentID uuid.UUID) {
	t.PartyPaymentID = &paymentID
}

// Complete marks the transaction as completed
func (t *UnifiedTransaction) Complete() error {
	if t.Status != TransactionStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Only processing transactions can be completed")
	}
	t.Status = TransactionStatusCompleted
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsVendorOrder returns true for purchase-order-backed transactions
func (t *UnifiedTransaction) IsVendorOrder() bool {
	return t.Category == CategoryVendorOrder
}

// IsVendorPayment returns true for party-payment-backed transactions
func (t *UnifiedTransaction) IsVendorPayment() bool {
	return t.Category == CategoryVendorPayment
}
