package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Expense represents a business expense, optionally linked to a party.
// Expenses linked to a party are settled through the party's balance and are
// excluded from the party's expense total during balance recalculation.
type Expense struct {
	shared.BaseAggregateRoot
	Category    string          `gorm:"type:varchar(100);not null;index"`
	Description string          `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseDate time.Time       `gorm:"type:date;not null;index"`
	PartyID     *uuid.UUID      `gorm:"type:uuid;index"`
	// PartyPaymentID links the payment that settled this expense. Expenses with
	// a payment link are counted through the payment during balance
	// recalculation, not through the expense total.
	PartyPaymentID *uuid.UUID `gorm:"type:uuid"`
	Notes          string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense
func NewExpense(category string, amount decimal.Decimal, expenseDate time.Time) (*Expense, error) {
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Amount:            amount,
		ExpenseDate:       expenseDate,
	}, nil
}

// WithParty links the expense to a party
func (e *Expense) WithParty(partyID uuid.UUID) *Expense {
	e.PartyID = &partyID
	return e
}

// WithPartyPayment links the payment that settled this expense
func (e *Expense) WithPartyPayment(paymentID uuid.UUID) *Expense {
	e.PartyPaymentID = &paymentID
	return e
}

// IsPaymentLinked returns true if a payment record settles this expense
func (e *Expense) IsPaymentLinked() bool {
	return e.PartyPaymentID != nil
}

// WithDescription sets the description
func (e *Expense) WithDescription(description string) *Expense {
	e.Description = description
	return e
}

// WithNotes sets free-form notes
func (e *Expense) WithNotes(notes string) *Expense {
	e.Notes = notes
	return e
}

// IsPartyLinked returns true if the expense is settled through a party balance
func (e *Expense) IsPartyLinked() bool {
	return e.PartyID != nil
}
