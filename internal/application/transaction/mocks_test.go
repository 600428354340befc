package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

// MockUnifiedTransactionRepository is a mock implementation of finance.UnifiedTransactionRepository
type MockUnifiedTransactionRepository struct {
	mock.Mock
}

func (m *MockUnifiedTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.UnifiedTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.UnifiedTransaction), args.Error(1)
}

func (m *MockUnifiedTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.UnifiedTransaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*finance.UnifiedTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockUnifiedTransactionRepository) Create(ctx context.Context, tx *finance.UnifiedTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockUnifiedTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUnifiedTransactionRepository) MarkCompletedByPurchaseOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockUnifiedTransactionRepository) NextReferenceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockUnifiedTransactionRepository) Rollback(ctx context.Context, expenseID, purchaseOrderID, paymentID *uuid.UUID) error {
	args := m.Called(ctx, expenseID, purchaseOrderID, paymentID)
	return args.Error(0)
}

func (m *MockUnifiedTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Expense, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*finance.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Expense, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// MockPartyPaymentRepository is a mock implementation of partner.PartyPaymentRepository
type MockPartyPaymentRepository struct {
	mock.Mock
}

func (m *MockPartyPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.PartyPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.PartyPayment), args.Error(1)
}

func (m *MockPartyPaymentRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*partner.PartyPayment, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.PartyPayment), args.Error(1)
}

func (m *MockPartyPaymentRepository) Create(ctx context.Context, payment *partner.PartyPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPartyPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAttachmentRepository is a mock implementation of finance.AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*finance.TransactionAttachment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.TransactionAttachment), args.Error(1)
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *finance.TransactionAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBalanceRecalculator is a mock implementation of BalanceRecalculator
type MockBalanceRecalculator struct {
	mock.Mock
}

func (m *MockBalanceRecalculator) Recalculate(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, partyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
