package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/partner"
	"github.com/storeops/backend/internal/domain/purchase"
)

// BalanceService recomputes party running balances from scratch. The cached
// current_balance on Party is never patched incrementally; every recompute
// folds the full payment, order, and expense history and overwrites it.
type BalanceService struct {
	partyRepo   partner.PartyRepository
	paymentRepo partner.PartyPaymentRepository
	orderRepo   purchase.PurchaseOrderRepository
	expenseRepo finance.ExpenseRepository
	logger      *zap.Logger
}

// NewBalanceService creates a new balance recalculation service
func NewBalanceService(
	partyRepo partner.PartyRepository,
	paymentRepo partner.PartyPaymentRepository,
	orderRepo purchase.PurchaseOrderRepository,
	expenseRepo finance.ExpenseRepository,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		partyRepo:   partyRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// Recalculate folds the party's full history into a fresh balance and
// overwrites the cached value:
//
//	opening_balance
//	+ Σ signed payments (payment adds, adjustment subtracts)
//	− Σ final_amount of confirmed-or-later purchase orders
//	− Σ party expenses not settled through a payment record
//
// Idempotent: with no intervening writes, repeated calls yield the same value.
func (s *BalanceService) Recalculate(ctx context.Context, partyID uuid.UUID) (decimal.Decimal, error) {
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := party.OpeningBalance

	payments, err := s.paymentRepo.FindByParty(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, p := range payments {
		balance = balance.Add(p.SignedAmount())
	}

	orders, err := s.orderRepo.FindByParty(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, o := range orders {
		if countsAgainstBalance(o.Status) {
			balance = balance.Sub(o.FinalAmount)
		}
	}

	expenses, err := s.expenseRepo.FindByParty(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, e := range expenses {
		// Payment-linked expenses are already counted through their payment
		if !e.IsPaymentLinked() {
			balance = balance.Sub(e.Amount)
		}
	}

	if err := s.partyRepo.OverwriteBalance(ctx, partyID, balance); err != nil {
		return decimal.Zero, err
	}

	s.logger.Debug("party balance recalculated",
		zap.String("party_id", partyID.String()),
		zap.String("balance", balance.String()))

	return balance, nil
}

// countsAgainstBalance reports whether an order in this status is owed to the
// vendor. Draft and sent orders are not yet commitments; cancelled orders
// never were.
func countsAgainstBalance(status purchase.Status) bool {
	switch status {
	case purchase.StatusConfirmed, purchase.StatusPartialReceived, purchase.StatusReceived:
		return true
	}
	return false
}
