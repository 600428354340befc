package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/storeops/backend/internal/application/inventory"
	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

// ReceiveItemInput is one line of a receive batch
type ReceiveItemInput struct {
	ItemID     uuid.UUID       `json:"item_id"`
	ReceiveNow decimal.Decimal `json:"receive_now"`
}

// ReceiveRequest is the body of a receive call against an order
type ReceiveRequest struct {
	ReceivedItems []ReceiveItemInput `json:"received_items" binding:"required,min=1"`
	Notes         string             `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID         `json:"-"`
}

// ReceiveItemResult reports one successfully applied line
type ReceiveItemResult struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Received         decimal.Decimal `json:"received"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	PendingQuantity  decimal.Decimal `json:"pending_quantity"`
}

// ReceiveItemError reports one rejected line; siblings are unaffected
type ReceiveItemError struct {
	ItemID  uuid.UUID `json:"item_id"`
	Message string    `json:"message"`
}

// ReceiveResponse is the outcome of a receive batch: per-item results,
// per-item errors, and the refreshed order
type ReceiveResponse struct {
	Results []ReceiveItemResult     `json:"results"`
	Errors  []ReceiveItemError      `json:"errors"`
	Order   *purchase.PurchaseOrder `json:"purchase_order"`
}

// StockAdjuster is the ledger the receive flow posts stock increments to
type StockAdjuster interface {
	Adjust(ctx context.Context, req appinventory.AdjustStockRequest) error
}

// ReceiveService drives partial receiving against confirmed purchase orders.
// One bad line never blocks its siblings; the order's status is recomputed
// from the items' receiving state after every batch.
type ReceiveService struct {
	orderRepo purchase.PurchaseOrderRepository
	txRepo    finance.UnifiedTransactionRepository
	stock     StockAdjuster
	logger    *zap.Logger
}

// NewReceiveService creates a new receiving service
func NewReceiveService(orderRepo purchase.PurchaseOrderRepository, txRepo finance.UnifiedTransactionRepository, stock StockAdjuster, logger *zap.Logger) *ReceiveService {
	return &ReceiveService{
		orderRepo: orderRepo,
		txRepo:    txRepo,
		stock:     stock,
		logger:    logger,
	}
}

// Receive applies a batch of receipts to an order. Per-item validation errors
// are collected without aborting the batch; a stock-ledger failure aborts the
// whole call.
func (s *ReceiveService) Receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	if !order.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive against order in %s status", order.Status))
	}
	if len(req.ReceivedItems) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receive batch cannot be empty")
	}

	now := time.Now()
	resp := &ReceiveResponse{
		Results: make([]ReceiveItemResult, 0, len(req.ReceivedItems)),
		Errors:  make([]ReceiveItemError, 0),
	}

	for _, entry := range req.ReceivedItems {
		item := order.GetItem(entry.ItemID)
		if item == nil {
			resp.Errors = append(resp.Errors, ReceiveItemError{
				ItemID:  entry.ItemID,
				Message: "Item does not belong to this order",
			})
			continue
		}

		// Domain validation first: bounds and monotonicity on the in-memory copy
		snapshot := *item
		if err := item.Receive(entry.ReceiveNow, now); err != nil {
			resp.Errors = append(resp.Errors, ReceiveItemError{
				ItemID:  entry.ItemID,
				Message: err.Error(),
			})
			continue
		}

		// The store applies the same increment conditionally, so a concurrent
		// receive on the same item surfaces here as an over-receipt
		if err := s.orderRepo.ApplyItemReceipt(ctx, item.ID, entry.ReceiveNow, now); err != nil {
			if errors.Is(err, shared.ErrOverReceipt) {
				*item = snapshot
				resp.Errors = append(resp.Errors, ReceiveItemError{
					ItemID:  entry.ItemID,
					Message: err.Error(),
				})
				continue
			}
			return nil, err
		}

		if item.ProductID != nil {
			adjErr := s.stock.Adjust(ctx, appinventory.AdjustStockRequest{
				ProductID:           *item.ProductID,
				QuantityChange:      entry.ReceiveNow,
				Reason:              receiveReason(order.PONumber, req.Notes),
				PurchaseOrderID:     &order.ID,
				PurchaseOrderItemID: &item.ID,
				PartyID:             &order.PartyID,
				CreatedBy:           req.CreatedBy,
			})
			if adjErr != nil {
				// The item quantity bump is not rolled back here; the ledger
				// and the item row disagree until the caller retries
				return nil, adjErr
			}
		}

		resp.Results = append(resp.Results, ReceiveItemResult{
			ItemID:           item.ID,
			ItemName:         item.ItemName,
			Received:         entry.ReceiveNow,
			ReceivedQuantity: item.ReceivedQuantity,
			PendingQuantity:  item.PendingQuantity(),
		})
	}

	if err := s.refreshOrderStatus(ctx, order); err != nil {
		return nil, err
	}

	resp.Order = order
	return resp, nil
}

// refreshOrderStatus recomputes the derived status, persists it when changed,
// and completes the linked journal entry on the flip to received
func (s *ReceiveService) refreshOrderStatus(ctx context.Context, order *purchase.PurchaseOrder) error {
	previous := order.Status
	order.RefreshStatus()
	if order.Status == previous {
		return nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return err
	}

	if order.Status == purchase.StatusReceived {
		if err := s.txRepo.MarkCompletedByPurchaseOrder(ctx, order.ID); err != nil {
			s.logger.Warn("linked transaction not completed on full receipt",
				zap.String("order_id", order.ID.String()),
				zap.String("po_number", order.PONumber),
				zap.Error(err))
		}
	}

	return nil
}

func receiveReason(poNumber, notes string) string {
	if notes != "" {
		return fmt.Sprintf("Receipt against %s: %s", poNumber, notes)
	}
	return fmt.Sprintf("Receipt against %s", poNumber)
}
