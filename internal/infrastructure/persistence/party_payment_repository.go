package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormPartyPaymentRepository is the GORM implementation of partner.PartyPaymentRepository
type GormPartyPaymentRepository struct {
	db *gorm.DB
}

// NewGormPartyPaymentRepository creates a new party payment repository
func NewGormPartyPaymentRepository(db *gorm.DB) *GormPartyPaymentRepository {
	return &GormPartyPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPartyPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.PartyPayment, error) {
	var payment partner.PartyPayment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByParty returns all payments for a party, newest first
func (r *GormPartyPaymentRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*partner.PartyPayment, error) {
	var payments []*partner.PartyPayment
	err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error
	return payments, err
}

// Create persists a new payment. Payments are immutable; there is no update.
func (r *GormPartyPaymentRepository) Create(ctx context.Context, payment *partner.PartyPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Delete removes a payment; only legal from the compensation path of a failed saga
func (r *GormPartyPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&partner.PartyPayment{}, "id = ?", id).Error
}
