package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppartner "github.com/storeops/backend/internal/application/partner"
	"github.com/storeops/backend/internal/domain/partner"
)

// PartyHandler handles party API endpoints
type PartyHandler struct {
	BaseHandler
	balanceService *apppartner.BalanceService
	partyRepo      partner.PartyRepository
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(balanceService *apppartner.BalanceService, partyRepo partner.PartyRepository) *PartyHandler {
	return &PartyHandler{
		balanceService: balanceService,
		partyRepo:      partyRepo,
	}
}

// RecalculateBalanceResponse reports the freshly derived balance
type RecalculateBalanceResponse struct {
	PartyID uuid.UUID       `json:"party_id"`
	Balance decimal.Decimal `json:"balance"`
}

// GetByID handles GET /parties/:id
func (h *PartyHandler) GetByID(c *gin.Context) {
	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	party, err := h.partyRepo.FindByID(c.Request.Context(), partyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, party)
}

// RecalculateBalance handles POST /parties/:id/recalculate-balance.
// The balance is always rebuilt from the full ledger, never incrementally.
func (h *PartyHandler) RecalculateBalance(c *gin.Context) {
	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	balance, err := h.balanceService.Recalculate(c.Request.Context(), partyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, RecalculateBalanceResponse{
		PartyID: partyID,
		Balance: balance,
	})
}

// RegisterRoutes registers party routes
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parties := rg.Group("/parties")
	{
		parties.GET("/:id", h.GetByID)
		parties.POST("/:id/recalculate-balance", h.RecalculateBalance)
	}
}
