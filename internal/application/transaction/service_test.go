package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

type serviceMocks struct {
	txRepo      *MockUnifiedTransactionRepository
	expenseRepo *MockExpenseRepository
	orderRepo   *MockPurchaseOrderRepository
	paymentRepo *MockPartyPaymentRepository
	attachRepo  *MockAttachmentRepository
	balances    *MockBalanceRecalculator
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		txRepo:      new(MockUnifiedTransactionRepository),
		expenseRepo: new(MockExpenseRepository),
		orderRepo:   new(MockPurchaseOrderRepository),
		paymentRepo: new(MockPartyPaymentRepository),
		attachRepo:  new(MockAttachmentRepository),
		balances:    new(MockBalanceRecalculator),
	}
	svc := NewService(m.txRepo, m.expenseRepo, m.orderRepo, m.paymentRepo,
		m.attachRepo, m.balances, zap.NewNop())
	return svc, m
}

func TestService_Execute_ValidationFailureHasNoSideEffects(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.Execute(context.Background(), CreateTransactionRequest{
		ExpenseCategory: finance.CategoryVendorOrder,
		TransactionDate: "2026-08-01",
	})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Result.Errors, "items")
	m.txRepo.AssertNotCalled(t, "NextReferenceNumber", mock.Anything)
	m.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Execute_VendorOrderHappyPath(t *testing.T) {
	svc, m := newTestService()
	req := validVendorOrderRequest()
	partyID := req.Parties[0].PartyID

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00042", nil)
	m.orderRepo.On("NextPONumber", mock.Anything).Return("PO-2026-00042", nil)
	m.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*purchase.PurchaseOrder")).Return(nil)
	m.orderRepo.On("CreateItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.UnifiedTransaction")).Return(nil)
	m.balances.On("Recalculate", mock.Anything, partyID).Return(decimal.NewFromInt(-500), nil)

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "TXN-2026-00042", resp.ReferenceNumber)
	assert.Equal(t, "expense", resp.TransactionType)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(500)), "10 x 50")
	assert.Equal(t, string(finance.TransactionStatusProcessing), resp.Status,
		"vendor orders stay processing until fully received")
	require.Len(t, resp.CreatedRecords, 1)
	assert.Equal(t, "purchase_order", resp.CreatedRecords[0].Type)

	createdOrder := m.orderRepo.Calls[1].Arguments.Get(1).(*purchase.PurchaseOrder)
	assert.Equal(t, purchase.StatusConfirmed, createdOrder.Status)
	assert.Equal(t, partyID, createdOrder.PartyID)

	createdTx := m.txRepo.Calls[1].Arguments.Get(1).(*finance.UnifiedTransaction)
	require.NotNil(t, createdTx.PurchaseOrderID)
	assert.Nil(t, createdTx.ExpenseID)
	assert.Nil(t, createdTx.PartyPaymentID)
	m.balances.AssertExpectations(t)
}

func TestService_Execute_VendorOrderWithZeroPricedItems(t *testing.T) {
	svc, m := newTestService()
	req := validVendorOrderRequest()
	req.Items = []TransactionItemInput{
		{ItemName: "Promo samples", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.Zero},
	}

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00048", nil)
	m.orderRepo.On("NextPONumber", mock.Anything).Return("PO-2026-00048", nil)
	m.orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.orderRepo.On("CreateItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.balances.On("Recalculate", mock.Anything, mock.Anything).Return(decimal.Zero, nil)

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err, "free-of-charge orders are valid through the journal step")
	assert.True(t, resp.TotalAmount.IsZero())
	m.txRepo.AssertNotCalled(t, "Rollback", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_VendorOrderItemsDefaultToOrderVendor(t *testing.T) {
	svc, m := newTestService()
	req := validVendorOrderRequest()
	partyID := req.Parties[0].PartyID

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00042", nil)
	m.orderRepo.On("NextPONumber", mock.Anything).Return("PO-2026-00042", nil)
	m.orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.orderRepo.On("CreateItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.balances.On("Recalculate", mock.Anything, mock.Anything).Return(decimal.Zero, nil)

	_, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	items := m.orderRepo.Calls[2].Arguments.Get(2).([]purchase.PurchaseOrderItem)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].VendorID)
	assert.Equal(t, partyID, *items[0].VendorID)
}

func TestService_Execute_ItemFailureDeletesOrder(t *testing.T) {
	svc, m := newTestService()
	req := validVendorOrderRequest()

	itemErr := errors.New("items table unavailable")
	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00042", nil)
	m.orderRepo.On("NextPONumber", mock.Anything).Return("PO-2026-00042", nil)
	m.orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.orderRepo.On("CreateItems", mock.Anything, mock.Anything, mock.Anything).Return(itemErr)
	m.txRepo.On("Rollback", mock.Anything, (*uuid.UUID)(nil), mock.AnythingOfType("*uuid.UUID"), (*uuid.UUID)(nil)).
		Return(shared.ErrRemoteStore)
	m.orderRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, err := svc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, itemErr, "original cause surfaces to the caller")

	// Server-side rollback was tried first, then the per-step delete removed the order
	m.txRepo.AssertCalled(t, "Rollback", mock.Anything, (*uuid.UUID)(nil), mock.AnythingOfType("*uuid.UUID"), (*uuid.UUID)(nil))
	m.orderRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
	m.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.balances.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything)
}

func TestService_Execute_BulkRollbackSkipsPerStepDeletes(t *testing.T) {
	svc, m := newTestService()
	req := validVendorOrderRequest()

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00042", nil)
	m.orderRepo.On("NextPONumber", mock.Anything).Return("PO-2026-00042", nil)
	m.orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.orderRepo.On("CreateItems", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom"))
	m.txRepo.On("Rollback", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Execute(context.Background(), req)
	require.Error(t, err)
	m.orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Execute_VendorPayment(t *testing.T) {
	svc, m := newTestService()
	partyID := uuid.New()
	amount := decimal.NewFromInt(1000)
	req := CreateTransactionRequest{
		ExpenseCategory: finance.CategoryVendorPayment,
		TransactionDate: "2026-08-01",
		TotalAmount:     &amount,
		Parties:         []PartyRef{{PartyID: partyID}},
		PaymentMethod: &PaymentMethodInput{
			Type:    "cheque",
			Details: &PaymentMethodDetails{ChequeNumber: "004512", ReleaseDate: "2026-08-15"},
		},
	}

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00043", nil)
	m.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*partner.PartyPayment")).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.balances.On("Recalculate", mock.Anything, partyID).Return(decimal.NewFromInt(1000), nil)

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(finance.TransactionStatusCompleted), resp.Status)

	payment := m.paymentRepo.Calls[0].Arguments.Get(1).(*partner.PartyPayment)
	assert.Equal(t, partner.PaymentMethodCheque, payment.PaymentMethod)
	assert.Equal(t, "004512", payment.ReferenceNumber)
	require.NotNil(t, payment.ReleaseDate)

	tx := m.txRepo.Calls[1].Arguments.Get(1).(*finance.UnifiedTransaction)
	require.NotNil(t, tx.PartyPaymentID)
	assert.Equal(t, payment.ID, *tx.PartyPaymentID)
	m.balances.AssertExpectations(t)
}

func TestService_Execute_VendorPaymentBalanceFailureIsNotFatal(t *testing.T) {
	svc, m := newTestService()
	amount := decimal.NewFromInt(1000)
	req := CreateTransactionRequest{
		ExpenseCategory: finance.CategoryVendorPayment,
		TransactionDate: "2026-08-01",
		TotalAmount:     &amount,
		Parties:         []PartyRef{{PartyID: uuid.New()}},
		PaymentMethod:   &PaymentMethodInput{Type: "cash"},
	}

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00044", nil)
	m.paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.balances.On("Recalculate", mock.Anything, mock.Anything).
		Return(decimal.Zero, errors.New("balance query timeout"))

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err, "balance refresh is best-effort")
	assert.NotNil(t, resp)
}

func TestService_Execute_RegularExpenseWithPayment(t *testing.T) {
	svc, m := newTestService()
	partyID := uuid.New()
	amount := decimal.NewFromInt(250)
	req := CreateTransactionRequest{
		ExpenseCategory: "Staff Advance",
		Description:     "Advance for August",
		TransactionDate: "2026-08-01",
		TotalAmount:     &amount,
		Parties:         []PartyRef{{PartyID: partyID}},
		PaymentMethod:   &PaymentMethodInput{Type: "cash"},
	}

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00045", nil)
	m.paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.expenseRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.Expense")).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.balances.On("Recalculate", mock.Anything, partyID).Return(decimal.Zero, nil)

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	expense := m.expenseRepo.Calls[0].Arguments.Get(1).(*finance.Expense)
	assert.True(t, expense.IsPaymentLinked(), "expense references the payment that settled it")
	assert.Equal(t, "Staff Advance", expense.Category)

	tx := m.txRepo.Calls[1].Arguments.Get(1).(*finance.UnifiedTransaction)
	require.NotNil(t, tx.ExpenseID, "journal links the primary record only")
	assert.Nil(t, tx.PartyPaymentID)
	assert.Equal(t, string(finance.TransactionStatusCompleted), resp.Status)
}

func TestService_Execute_JournalFailureCompensatesEverything(t *testing.T) {
	svc, m := newTestService()
	amount := decimal.NewFromInt(250)
	req := CreateTransactionRequest{
		ExpenseCategory: "Utilities",
		TransactionDate: "2026-08-01",
		TotalAmount:     &amount,
	}

	jErr := errors.New("journal insert failed")
	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00046", nil)
	m.expenseRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(jErr)
	m.txRepo.On("Rollback", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(shared.ErrRemoteStore)
	m.expenseRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, jErr)
	m.expenseRepo.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Execute_AttachmentFailureIsNotFatal(t *testing.T) {
	svc, m := newTestService()
	amount := decimal.NewFromInt(250)
	req := CreateTransactionRequest{
		ExpenseCategory: "Utilities",
		TransactionDate: "2026-08-01",
		TotalAmount:     &amount,
		Attachments: []AttachmentInput{
			{FileName: "bill.pdf", StoredName: "2026/08/bill-7f3a.pdf"},
		},
	}

	m.txRepo.On("NextReferenceNumber", mock.Anything).Return("TXN-2026-00047", nil)
	m.expenseRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.attachRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("metadata store down"))

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)
	for _, rec := range resp.CreatedRecords {
		assert.NotEqual(t, "attachment", rec.Type)
	}
}
