package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// PaymentType represents the type of a party payment
type PaymentType string

const (
	// PaymentTypePayment represents money actually handed to the party
	PaymentTypePayment PaymentType = "payment"
	// PaymentTypeAdjustment represents a manual correction against the party's position
	PaymentTypeAdjustment PaymentType = "adjustment"
)

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// IsValid returns true if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypePayment, PaymentTypeAdjustment:
		return true
	}
	return false
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCheque PaymentMethod = "cheque"
)

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCheque:
		return true
	}
	return false
}

// IsDeferred returns true for instruments that clear later than they are issued
func (m PaymentMethod) IsDeferred() bool {
	return m == PaymentMethodCheque
}

// PartyPayment represents an immutable record of money exchanged with a party.
// Once created, payments cannot be modified - corrections must be made with
// adjustment records. Payments are only ever deleted by the compensation path
// of a failed creation saga, where they were never "real".
type PartyPayment struct {
	shared.BaseEntity
	PartyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentType     PaymentType     `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction determined by type
	PaymentDate     time.Time       `gorm:"type:date;not null"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null"`
	ReferenceNumber string          `gorm:"type:varchar(100)"`
	ReleaseDate     *time.Time      `gorm:"type:date"` // Only meaningful for deferred instruments
	Notes           string          `gorm:"type:text"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PartyPayment) TableName() string {
	return "party_payments"
}

// NewPartyPayment creates a new party payment
func NewPartyPayment(partyID uuid.UUID, paymentType PaymentType, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod) (*PartyPayment, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	return &PartyPayment{
		BaseEntity:    shared.NewBaseEntity(),
		PartyID:       partyID,
		PaymentType:   paymentType,
		Amount:        amount,
		PaymentDate:   paymentDate,
		PaymentMethod: method,
	}, nil
}

// WithReference sets the instrument reference number (UPI reference, cheque number)
func (p *PartyPayment) WithReference(reference string) *PartyPayment {
	p.ReferenceNumber = reference
	return p
}

// WithReleaseDate sets the release date for deferred instruments
func (p *PartyPayment) WithReleaseDate(date time.Time) *PartyPayment {
	p.ReleaseDate = &date
	return p
}

// WithNotes sets the payment notes
func (p *PartyPayment) WithNotes(notes string) *PartyPayment {
	p.Notes = notes
	return p
}

// WithCreatedBy sets the creator user ID
func (p *PartyPayment) WithCreatedBy(userID uuid.UUID) *PartyPayment {
	p.CreatedBy = &userID
	return p
}

// SignedAmount returns the amount with sign based on payment type.
// Payments add to the party's credit position; adjustments reduce it.
func (p *PartyPayment) SignedAmount() decimal.Decimal {
	if p.PaymentType == PaymentTypeAdjustment {
		return p.Amount.Neg()
	}
	return p.Amount
}
