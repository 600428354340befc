package partner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// PartyType represents the kind of counterpart a party is
type PartyType string

const (
	PartyTypeVendor   PartyType = "vendor"
	PartyTypeCustomer PartyType = "customer"
	PartyTypeEmployee PartyType = "employee"
)

// String returns the string representation of PartyType
func (t PartyType) String() string {
	return string(t)
}

// IsValid returns true if the party type is valid
func (t PartyType) IsValid() bool {
	switch t {
	case PartyTypeVendor, PartyTypeCustomer, PartyTypeEmployee:
		return true
	}
	return false
}

// Party represents a vendor, customer or employee with whom money or goods
// are exchanged. CurrentBalance is a cached value; the authoritative balance
// is the fold over the party's payment, order and expense history.
type Party struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	PartyType      PartyType       `gorm:"type:varchar(20);not null;index"`
	Phone          string          `gorm:"type:varchar(30)"`
	Email          string          `gorm:"type:varchar(200)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a new party
func NewParty(name string, partyType PartyType, openingBalance decimal.Decimal) (*Party, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Party name cannot be empty")
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY_TYPE", "Invalid party type")
	}

	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		PartyType:         partyType,
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
	}, nil
}

// OverwriteBalance replaces the cached balance with a freshly recomputed value.
// The cache is never incrementally patched, only fully overwritten.
func (p *Party) OverwriteBalance(balance decimal.Decimal) {
	p.CurrentBalance = balance
	p.UpdatedAt = time.Now()
}

// IsVendor returns true if the party is a vendor
func (p *Party) IsVendor() bool {
	return p.PartyType == PartyTypeVendor
}

// IsEmployee returns true if the party is an employee
func (p *Party) IsEmployee() bool {
	return p.PartyType == PartyTypeEmployee
}
