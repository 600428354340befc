package finance

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// ExpenseRepository defines the persistence contract for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Expense, int64, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnifiedTransactionRepository defines the persistence contract for the
// transaction journal
type UnifiedTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UnifiedTransaction, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*UnifiedTransaction, int64, error)
	Create(ctx context.Context, tx *UnifiedTransaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status TransactionStatus) error

	// MarkCompletedByPurchaseOrder flips the transaction linked to an order
	// from processing to completed. Missing transactions are not an error;
	// orders created outside the intake flow have no journal entry.
	MarkCompletedByPurchaseOrder(ctx context.Context, orderID uuid.UUID) error

	// NextReferenceNumber generates the next sequential reference (TXN-YYYY-NNNNN)
	NextReferenceNumber(ctx context.Context) (string, error)

	// Rollback removes a partially-written transaction and its child records
	// in one server-side call. Implementations without the server-side
	// primitive return shared.ErrRemoteStore so callers fall back to
	// per-record compensation.
	Rollback(ctx context.Context, expenseID, purchaseOrderID, paymentID *uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentRepository defines the persistence contract for attachment metadata
type AttachmentRepository interface {
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*TransactionAttachment, error)
	Create(ctx context.Context, attachment *TransactionAttachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
