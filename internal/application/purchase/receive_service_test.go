package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinventory "github.com/storeops/backend/internal/application/inventory"
	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

// MockPurchaseOrderRepository is a mock implementation of purchase.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*purchase.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*purchase.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*purchase.PurchaseOrder, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CreateItems(ctx context.Context, orderID uuid.UUID, items []purchase.PurchaseOrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status purchase.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) ApplyItemReceipt(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal, receivedAt time.Time) error {
	args := m.Called(ctx, itemID, quantity, receivedAt)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) NextPONumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionJournal mocks the journal surface the receive flow touches
type MockTransactionJournal struct {
	mock.Mock
}

func (m *MockTransactionJournal) FindByID(ctx context.Context, id uuid.UUID) (*finance.UnifiedTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.UnifiedTransaction), args.Error(1)
}

func (m *MockTransactionJournal) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.UnifiedTransaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*finance.UnifiedTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionJournal) Create(ctx context.Context, tx *finance.UnifiedTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionJournal) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTransactionJournal) MarkCompletedByPurchaseOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockTransactionJournal) NextReferenceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionJournal) Rollback(ctx context.Context, expenseID, purchaseOrderID, paymentID *uuid.UUID) error {
	args := m.Called(ctx, expenseID, purchaseOrderID, paymentID)
	return args.Error(0)
}

func (m *MockTransactionJournal) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStockAdjuster is a mock implementation of StockAdjuster
type MockStockAdjuster struct {
	mock.Mock
}

func (m *MockStockAdjuster) Adjust(ctx context.Context, req appinventory.AdjustStockRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func confirmedOrder(t *testing.T, quantities ...int64) *purchase.PurchaseOrder {
	t.Helper()
	order, err := purchase.NewPurchaseOrder("PO-2026-00007", uuid.New(), time.Now())
	require.NoError(t, err)
	for i, q := range quantities {
		item, err := purchase.NewPurchaseOrderItem(order.ID,
			"Item "+string(rune('A'+i)), decimal.NewFromInt(q), decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, order.AddItem(item))
	}
	require.NoError(t, order.Confirm())
	return order
}

func newReceiveService() (*ReceiveService, *MockPurchaseOrderRepository, *MockTransactionJournal, *MockStockAdjuster) {
	orderRepo := new(MockPurchaseOrderRepository)
	txRepo := new(MockTransactionJournal)
	stock := new(MockStockAdjuster)
	return NewReceiveService(orderRepo, txRepo, stock, zap.NewNop()), orderRepo, txRepo, stock
}

func TestReceiveService_PartialThenFullReceipt(t *testing.T) {
	svc, orderRepo, txRepo, stock := newReceiveService()

	order := confirmedOrder(t, 10)
	productID := uuid.New()
	order.Items[0].WithProduct(productID)
	itemID := order.Items[0].ID

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("ApplyItemReceipt", mock.Anything, itemID, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("UpdateStatus", mock.Anything, order.ID, mock.Anything).Return(nil)
	stock.On("Adjust", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("MarkCompletedByPurchaseOrder", mock.Anything, order.ID).Return(nil)

	// First batch: 4 of 10
	resp, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].ReceivedQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, resp.Results[0].PendingQuantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, purchase.StatusPartialReceived, resp.Order.Status)

	adj := stock.Calls[0].Arguments.Get(1).(appinventory.AdjustStockRequest)
	assert.Equal(t, productID, adj.ProductID)
	assert.True(t, adj.QuantityChange.Equal(decimal.NewFromInt(4)))
	require.NotNil(t, adj.PurchaseOrderID)
	assert.Equal(t, order.ID, *adj.PurchaseOrderID)

	// Second batch: remaining 6 flips the order to received
	resp, err = svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(6)}},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusReceived, resp.Order.Status)
	txRepo.AssertCalled(t, "MarkCompletedByPurchaseOrder", mock.Anything, order.ID)
}

func TestReceiveService_PartialBatchTolerance(t *testing.T) {
	svc, orderRepo, _, stock := newReceiveService()

	// Three items; item 2 will ask for more than its pending quantity
	order := confirmedOrder(t, 10, 5, 8)
	for i := range order.Items {
		productID := uuid.New()
		order.Items[i].WithProduct(productID)
	}

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("ApplyItemReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("UpdateStatus", mock.Anything, order.ID, purchase.StatusPartialReceived).Return(nil)
	stock.On("Adjust", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{
			{ItemID: order.Items[0].ID, ReceiveNow: decimal.NewFromInt(10)},
			{ItemID: order.Items[1].ID, ReceiveNow: decimal.NewFromInt(9)}, // over pending
			{ItemID: order.Items[2].ID, ReceiveNow: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2, "items 1 and 3 applied")
	require.Len(t, resp.Errors, 1, "item 2 rejected alone")
	assert.Equal(t, order.Items[1].ID, resp.Errors[0].ItemID)
	assert.True(t, order.Items[1].ReceivedQuantity.IsZero(), "rejected line unchanged")
	assert.Equal(t, purchase.StatusPartialReceived, resp.Order.Status,
		"status reflects only the applied lines")
	stock.AssertNumberOfCalls(t, "Adjust", 2)
}

func TestReceiveService_ZeroAndNegativeQuantitiesRejectedPerItem(t *testing.T) {
	svc, orderRepo, _, _ := newReceiveService()

	order := confirmedOrder(t, 10)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	resp, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{
			{ItemID: order.Items[0].ID, ReceiveNow: decimal.Zero},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	require.Len(t, resp.Errors, 1)
	orderRepo.AssertNotCalled(t, "ApplyItemReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiveService_FullyReceivedItemRejectsMore(t *testing.T) {
	svc, orderRepo, txRepo, stock := newReceiveService()

	order := confirmedOrder(t, 10)
	itemID := order.Items[0].ID
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("ApplyItemReceipt", mock.Anything, itemID, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("UpdateStatus", mock.Anything, order.ID, purchase.StatusReceived).Return(nil)
	txRepo.On("MarkCompletedByPurchaseOrder", mock.Anything, order.ID).Return(nil)
	stock.On("Adjust", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	require.Equal(t, purchase.StatusReceived, order.Status)

	// The order is now terminal for receiving
	_, err = svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestReceiveService_ConcurrentOverReceiptSurfacedPerItem(t *testing.T) {
	svc, orderRepo, _, _ := newReceiveService()

	order := confirmedOrder(t, 10)
	itemID := order.Items[0].ID
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("ApplyItemReceipt", mock.Anything, itemID, mock.Anything, mock.Anything).
		Return(shared.ErrOverReceipt)

	resp, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.True(t, order.Items[0].ReceivedQuantity.IsZero(), "in-memory bump undone on conditional-update conflict")

	// The returned order must carry no trace of the rejected receipt
	returned := resp.Order.GetItem(itemID)
	require.NotNil(t, returned)
	assert.Nil(t, returned.FirstReceivedAt)
	assert.Nil(t, returned.LastReceivedAt)
}

func TestReceiveService_StockFailureFailsWholeCall(t *testing.T) {
	svc, orderRepo, _, stock := newReceiveService()

	order := confirmedOrder(t, 10)
	productID := uuid.New()
	order.Items[0].WithProduct(productID)
	itemID := order.Items[0].ID

	stockErr := errors.New("ledger unavailable")
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("ApplyItemReceipt", mock.Anything, itemID, mock.Anything, mock.Anything).Return(nil)
	stock.On("Adjust", mock.Anything, mock.Anything).Return(stockErr)

	_, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: itemID, ReceiveNow: decimal.NewFromInt(4)}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, stockErr)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiveService_UnknownItemCollectedAsError(t *testing.T) {
	svc, orderRepo, _, _ := newReceiveService()

	order := confirmedOrder(t, 10)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	resp, err := svc.Receive(context.Background(), order.ID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: uuid.New(), ReceiveNow: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Empty(t, resp.Results)
}

func TestReceiveService_OrderNotFound(t *testing.T) {
	svc, orderRepo, _, _ := newReceiveService()

	orderID := uuid.New()
	orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	_, err := svc.Receive(context.Background(), orderID, ReceiveRequest{
		ReceivedItems: []ReceiveItemInput{{ItemID: uuid.New(), ReceiveNow: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
