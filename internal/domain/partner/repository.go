package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// PartyRepository provides access to parties
type PartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Party, int64, error)
	Save(ctx context.Context, party *Party) error
	// OverwriteBalance replaces the cached balance with a recomputed value
	OverwriteBalance(ctx context.Context, partyID uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartyPaymentRepository provides access to party payments
type PartyPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PartyPayment, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]*PartyPayment, error)
	Create(ctx context.Context, payment *PartyPayment) error
	// Delete removes a payment; only legal from the compensation path of a failed saga
	Delete(ctx context.Context, id uuid.UUID) error
}
