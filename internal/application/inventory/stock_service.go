package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/inventory"
	"github.com/storeops/backend/internal/domain/shared"
)

// AdjustStockRequest describes one signed stock mutation with its provenance
type AdjustStockRequest struct {
	ProductID           uuid.UUID
	QuantityChange      decimal.Decimal // Signed: positive receives, negative issues
	Reason              string
	PurchaseOrderID     *uuid.UUID
	PurchaseOrderItemID *uuid.UUID
	PartyID             *uuid.UUID
	CreatedBy           *uuid.UUID
}

// StockService is the only writer of product stock quantities. Every mutation
// goes through the repository's single-statement add-delta primitive and
// leaves an append-only StockMovement behind.
type StockService struct {
	productRepo  inventory.ProductRepository
	movementRepo inventory.StockMovementRepository
	logger       *zap.Logger
}

// NewStockService creates a new stock ledger service
func NewStockService(productRepo inventory.ProductRepository, movementRepo inventory.StockMovementRepository, logger *zap.Logger) *StockService {
	return &StockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// Adjust applies a signed delta to the product's stock and records the
// movement. A failing atomic update fails the call loudly; there is no
// read-modify-write fallback.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) error {
	if req.QuantityChange.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock adjustment cannot be zero")
	}

	if err := s.productRepo.AdjustStockAtomic(ctx, req.ProductID, req.QuantityChange); err != nil {
		s.logger.Error("atomic stock adjustment failed",
			zap.String("product_id", req.ProductID.String()),
			zap.String("delta", req.QuantityChange.String()),
			zap.Error(err))
		return err
	}

	movement, err := inventory.NewStockMovement(req.ProductID,
		inventory.MovementTypeForDelta(req.QuantityChange),
		req.QuantityChange.Abs(), req.Reason)
	if err != nil {
		return err
	}
	movement.WithProvenance(inventory.MovementProvenance{
		PurchaseOrderID:     req.PurchaseOrderID,
		PurchaseOrderItemID: req.PurchaseOrderItemID,
		PartyID:             req.PartyID,
	})
	if req.CreatedBy != nil {
		movement.WithCreatedBy(*req.CreatedBy)
	}

	if err := s.movementRepo.Append(ctx, movement); err != nil {
		s.logger.Error("stock movement append failed after adjustment",
			zap.String("product_id", req.ProductID.String()),
			zap.String("movement_id", movement.ID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// Movements returns the audit trail for a product
func (s *StockService) Movements(ctx context.Context, productID uuid.UUID) ([]*inventory.StockMovement, error) {
	return s.movementRepo.FindByProduct(ctx, productID)
}
