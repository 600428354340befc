package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/domain/shared"
)

// ValidationError carries the field-level result of a rejected intake request
type ValidationError struct {
	Result ValidationResult
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "transaction validation failed"
}

// BalanceRecalculator refreshes a party's cached running balance
type BalanceRecalculator interface {
	Recalculate(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error)
}

// Service orchestrates transaction creation: validation, category dispatch
// into sub-records, the journal header, and compensation on failure. The
// happy path is strictly additive; nothing is updated in place.
type Service struct {
	txRepo      finance.UnifiedTransactionRepository
	expenseRepo finance.ExpenseRepository
	orderRepo   purchase.PurchaseOrderRepository
	paymentRepo partner.PartyPaymentRepository
	attachRepo  finance.AttachmentRepository
	balances    BalanceRecalculator
	logger      *zap.Logger
}

// NewService creates a new transaction orchestration service
func NewService(
	txRepo finance.UnifiedTransactionRepository,
	expenseRepo finance.ExpenseRepository,
	orderRepo purchase.PurchaseOrderRepository,
	paymentRepo partner.PartyPaymentRepository,
	attachRepo finance.AttachmentRepository,
	balances BalanceRecalculator,
	logger *zap.Logger,
) *Service {
	return &Service{
		txRepo:      txRepo,
		expenseRepo: expenseRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		attachRepo:  attachRepo,
		balances:    balances,
		logger:      logger,
	}
}

// sagaState accumulates the rows written so far, for linking and compensation
type sagaState struct {
	transactionDate time.Time
	order           *purchase.PurchaseOrder
	payment         *partner.PartyPayment
	expense         *finance.Expense
	tx              *finance.UnifiedTransaction
	created         []CreatedRecord
}

func (st *sagaState) expenseID() *uuid.UUID {
	if st.expense == nil {
		return nil
	}
	return &st.expense.ID
}

func (st *sagaState) orderID() *uuid.UUID {
	if st.order == nil {
		return nil
	}
	return &st.order.ID
}

func (st *sagaState) paymentID() *uuid.UUID {
	if st.payment == nil {
		return nil
	}
	return &st.payment.ID
}

// Execute creates a transaction end to end. Validation failures return a
// *ValidationError with zero side effects; downstream failures are compensated
// before the original error is re-surfaced.
func (s *Service) Execute(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	if result := Validate(req); !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	txDate, _ := parseDate(req.TransactionDate)
	state := &sagaState{transactionDate: txDate}

	refNumber, err := s.txRepo.NextReferenceNumber(ctx)
	if err != nil {
		return nil, err
	}

	saga := NewSaga(s.logger)
	switch {
	case req.IsVendorOrder():
		s.addVendorOrderSteps(saga, &req, state)
	case req.IsVendorPayment():
		s.addVendorPaymentSteps(saga, &req, state)
	default:
		s.addRegularExpenseSteps(saga, &req, state)
	}
	s.addJournalStep(saga, &req, state, refNumber)

	saga.WithBulkCompensation(func(ctx context.Context) error {
		if state.expenseID() == nil && state.orderID() == nil && state.paymentID() == nil {
			return nil
		}
		return s.txRepo.Rollback(ctx, state.expenseID(), state.orderID(), state.paymentID())
	})

	if err := saga.Execute(ctx); err != nil {
		return nil, err
	}

	// Best-effort trailers: attachment metadata and the balance cache refresh
	s.linkAttachments(ctx, req.Attachments, state)
	s.refreshBalance(ctx, state)

	return &CreateTransactionResponse{
		TransactionID:   state.tx.ID,
		TransactionType: "expense",
		ReferenceNumber: state.tx.ReferenceNumber,
		TotalAmount:     state.tx.FinalAmount,
		Status:          string(state.tx.Status),
		CreatedRecords:  state.created,
	}, nil
}

// addVendorOrderSteps builds the purchase-order branch: order header, items,
// and optionally a full payment when the order is paid at creation time.
func (s *Service) addVendorOrderSteps(saga *Saga, req *CreateTransactionRequest, state *sagaState) {
	saga.AddStep(SagaStep{
		Name: "create-purchase-order",
		Action: func(ctx context.Context) error {
			partyID, err := resolveOrderParty(req)
			if err != nil {
				return err
			}
			poNumber, err := s.orderRepo.NextPONumber(ctx)
			if err != nil {
				return err
			}
			order, err := purchase.NewPurchaseOrder(poNumber, partyID, state.transactionDate)
			if err != nil {
				return err
			}
			order.Notes = req.Notes
			order.PaymentTerms = req.PaymentTerms
			order.Priority = req.Priority
			if req.ExpectedDeliveryDate != "" {
				if d, ok := parseDate(req.ExpectedDeliveryDate); ok {
					order.ExpectedDeliveryDate = &d
				}
			}
			if req.CreatedBy != nil {
				order.SetCreatedBy(*req.CreatedBy)
			}
			// Orders born from intake are immediately confirmed
			order.Status = purchase.StatusConfirmed
			if err := s.orderRepo.Create(ctx, order); err != nil {
				return err
			}
			state.order = order
			state.created = append(state.created, CreatedRecord{Type: "purchase_order", ID: order.ID})
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if state.order == nil {
				return nil
			}
			return s.orderRepo.Delete(ctx, state.order.ID)
		},
	})

	saga.AddStep(SagaStep{
		Name: "create-order-items",
		Action: func(ctx context.Context) error {
			items, err := buildOrderItems(state.order, req)
			if err != nil {
				return err
			}
			if err := s.orderRepo.CreateItems(ctx, state.order.ID, items); err != nil {
				return err
			}
			state.order.Items = items
			recalc := decimal.Zero
			for i := range items {
				recalc = recalc.Add(items[i].TotalAmount)
			}
			state.order.FinalAmount = recalc
			return nil
		},
		// Item rows are removed with the order header
	})

	if req.PaymentMethod != nil {
		saga.AddStep(SagaStep{
			Name: "create-order-payment",
			Action: func(ctx context.Context) error {
				payment, err := buildPartyPayment(state.order.PartyID, state.order.FinalAmount, req, state.transactionDate)
				if err != nil {
					return err
				}
				if err := s.paymentRepo.Create(ctx, payment); err != nil {
					return err
				}
				state.payment = payment
				state.created = append(state.created, CreatedRecord{Type: "party_payment", ID: payment.ID})
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if state.payment == nil {
					return nil
				}
				return s.paymentRepo.Delete(ctx, state.payment.ID)
			},
		})
	}
}

func (s *Service) addVendorPaymentSteps(saga *Saga, req *CreateTransactionRequest, state *sagaState) {
	saga.AddStep(SagaStep{
		Name: "create-party-payment",
		Action: func(ctx context.Context) error {
			party := req.PrimaryParty()
			payment, err := buildPartyPayment(party.PartyID, *req.TotalAmount, req, state.transactionDate)
			if err != nil {
				return err
			}
			if err := s.paymentRepo.Create(ctx, payment); err != nil {
				return err
			}
			state.payment = payment
			state.created = append(state.created, CreatedRecord{Type: "party_payment", ID: payment.ID})
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if state.payment == nil {
				return nil
			}
			return s.paymentRepo.Delete(ctx, state.payment.ID)
		},
	})
}

func (s *Service) addRegularExpenseSteps(saga *Saga, req *CreateTransactionRequest, state *sagaState) {
	if req.PaymentMethod != nil && req.PrimaryParty() != nil {
		saga.AddStep(SagaStep{
			Name: "create-expense-payment",
			Action: func(ctx context.Context) error {
				payment, err := buildPartyPayment(req.PrimaryParty().PartyID, *req.TotalAmount, req, state.transactionDate)
				if err != nil {
					return err
				}
				if err := s.paymentRepo.Create(ctx, payment); err != nil {
					return err
				}
				state.payment = payment
				state.created = append(state.created, CreatedRecord{Type: "party_payment", ID: payment.ID})
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if state.payment == nil {
					return nil
				}
				return s.paymentRepo.Delete(ctx, state.payment.ID)
			},
		})
	}

	saga.AddStep(SagaStep{
		Name: "create-expense",
		Action: func(ctx context.Context) error {
			expense, err := finance.NewExpense(req.ExpenseCategory, *req.TotalAmount, state.transactionDate)
			if err != nil {
				return err
			}
			expense.WithDescription(req.Description).WithNotes(req.Notes)
			if party := req.PrimaryParty(); party != nil {
				expense.WithParty(party.PartyID)
			}
			if state.payment != nil {
				expense.WithPartyPayment(state.payment.ID)
			}
			if err := s.expenseRepo.Create(ctx, expense); err != nil {
				return err
			}
			state.expense = expense
			state.created = append(state.created, CreatedRecord{Type: "expense", ID: expense.ID})
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if state.expense == nil {
				return nil
			}
			return s.expenseRepo.Delete(ctx, state.expense.ID)
		},
	})
}

// addJournalStep writes the unified-transaction header last, linking whatever
// sub-record the category produced
func (s *Service) addJournalStep(saga *Saga, req *CreateTransactionRequest, state *sagaState, refNumber string) {
	saga.AddStep(SagaStep{
		Name: "create-unified-transaction",
		Action: func(ctx context.Context) error {
			amount := decimal.Zero
			switch {
			case req.IsVendorOrder():
				amount = state.order.FinalAmount
			default:
				amount = *req.TotalAmount
			}

			tx, err := finance.NewUnifiedTransaction(refNumber, req.ExpenseCategory,
				state.transactionDate, amount, decimal.Zero, decimal.Zero)
			if err != nil {
				return err
			}
			tx.WithNotes(req.Description)
			if party := req.PrimaryParty(); party != nil {
				tx.WithParty(party.PartyID)
			} else if state.order != nil {
				tx.WithParty(state.order.PartyID)
			}
			if req.CreatedBy != nil {
				tx.SetCreatedBy(*req.CreatedBy)
			}

			switch {
			case state.order != nil:
				tx.LinkPurchaseOrder(state.order.ID)
			case state.expense != nil:
				tx.LinkExpense(state.expense.ID)
			case state.payment != nil:
				tx.LinkPartyPayment(state.payment.ID)
			}

			// Vendor orders stay in processing until fully received
			if !req.IsVendorOrder() {
				if err := tx.Complete(); err != nil {
					return err
				}
			}

			if err := s.txRepo.Create(ctx, tx); err != nil {
				return err
			}
			state.tx = tx
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if state.tx == nil {
				return nil
			}
			return s.txRepo.Delete(ctx, state.tx.ID)
		},
	})
}

// linkAttachments persists attachment metadata; failures are logged, never fatal
func (s *Service) linkAttachments(ctx context.Context, attachments []AttachmentInput, state *sagaState) {
	for _, in := range attachments {
		att, err := finance.NewTransactionAttachment(state.tx.ID, in.FileName, in.StoredName)
		if err == nil {
			att.WithContentType(in.ContentType).WithSize(in.SizeBytes)
			err = s.attachRepo.Create(ctx, att)
		}
		if err != nil {
			s.logger.Warn("attachment metadata not linked",
				zap.String("file_name", in.FileName),
				zap.String("transaction_id", state.tx.ID.String()),
				zap.Error(err))
			continue
		}
		state.created = append(state.created, CreatedRecord{Type: "attachment", ID: att.ID})
	}
}

// refreshBalance recomputes the involved party's cached balance; failures are
// logged at warn and never escalate into the saga
func (s *Service) refreshBalance(ctx context.Context, state *sagaState) {
	var partyID *uuid.UUID
	switch {
	case state.order != nil:
		partyID = &state.order.PartyID
	case state.payment != nil:
		partyID = &state.payment.PartyID
	case state.expense != nil:
		partyID = state.expense.PartyID
	}
	if partyID == nil {
		return
	}
	if _, err := s.balances.Recalculate(ctx, *partyID); err != nil {
		s.logger.Warn("party balance refresh failed",
			zap.String("party_id", partyID.String()),
			zap.Error(err))
	}
}

// resolveOrderParty picks the order's vendor: the transaction-level party when
// given, otherwise the first item that names its own vendor
func resolveOrderParty(req *CreateTransactionRequest) (uuid.UUID, error) {
	if party := req.PrimaryParty(); party != nil {
		return party.PartyID, nil
	}
	for i := range req.Items {
		if req.Items[i].VendorID != nil {
			return *req.Items[i].VendorID, nil
		}
	}
	return uuid.Nil, shared.NewDomainError("INVALID_PARTY", "Vendor order has no resolvable vendor")
}

// buildOrderItems turns request lines into domain items, defaulting each
// line's vendor to the order's party
func buildOrderItems(order *purchase.PurchaseOrder, req *CreateTransactionRequest) ([]purchase.PurchaseOrderItem, error) {
	items := make([]purchase.PurchaseOrderItem, 0, len(req.Items))
	for i := range req.Items {
		in := &req.Items[i]
		item, err := purchase.NewPurchaseOrderItem(order.ID, in.ItemName, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		item.WithDescription(in.Description)
		if in.ProductID != nil {
			item.WithProduct(*in.ProductID)
		}
		if in.VendorID != nil {
			item.WithVendor(*in.VendorID)
		} else {
			item.WithVendor(order.PartyID)
		}
		items = append(items, *item)
	}
	return items, nil
}

// buildPartyPayment constructs the payment record for any category that pays
// at creation time
func buildPartyPayment(partyID uuid.UUID, amount decimal.Decimal, req *CreateTransactionRequest, paymentDate time.Time) (*partner.PartyPayment, error) {
	method := paymentMethodFor(req.PaymentMethod)
	payment, err := partner.NewPartyPayment(partyID, partner.PaymentTypePayment, amount, paymentDate, method)
	if err != nil {
		return nil, err
	}

	if details := req.PaymentMethod.Details; details != nil {
		switch {
		case details.ChequeNumber != "":
			payment.WithReference(details.ChequeNumber)
		case details.ReferenceNumber != "":
			payment.WithReference(details.ReferenceNumber)
		}
		if details.ReleaseDate != "" && method.IsDeferred() {
			if d, ok := parseDate(details.ReleaseDate); ok {
				payment.WithReleaseDate(d)
			}
		}
	}
	payment.WithNotes(req.Notes)
	if req.CreatedBy != nil {
		payment.WithCreatedBy(*req.CreatedBy)
	}
	return payment, nil
}
