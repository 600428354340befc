package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormPartyRepository is the GORM implementation of partner.PartyRepository
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new party repository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var party partner.Party
	err := r.db.WithContext(ctx).First(&party, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

// FindAll returns parties matching the filter
func (r *GormPartyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Party, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Party{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if partyType, ok := filter.Filters["party_type"]; ok {
		query = query.Where("party_type = ?", partyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var parties []*partner.Party
	if err := applyPagination(query, filter).Find(&parties).Error; err != nil {
		return nil, 0, err
	}
	return parties, total, nil
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

// OverwriteBalance replaces the cached balance with a freshly computed value
func (r *GormPartyRepository) OverwriteBalance(ctx context.Context, partyID uuid.UUID, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&partner.Party{}).
		Where("id = ?", partyID).
		Updates(map[string]interface{}{
			"current_balance": balance,
			"updated_at":      gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a party
func (r *GormPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&partner.Party{}, "id = ?", id).Error
}
