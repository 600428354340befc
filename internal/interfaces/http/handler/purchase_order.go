package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apppurchase "github.com/storeops/backend/internal/application/purchase"
	"github.com/storeops/backend/internal/domain/purchase"
	"github.com/storeops/backend/internal/interfaces/http/dto"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	receiveService *apppurchase.ReceiveService
	orderRepo      purchase.PurchaseOrderRepository
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(receiveService *apppurchase.ReceiveService, orderRepo purchase.PurchaseOrderRepository) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		receiveService: receiveService,
		orderRepo:      orderRepo,
	}
}

// ReceiveResponse is the wire shape of a receive batch outcome
type ReceiveResponse struct {
	Success       bool                            `json:"success"`
	Message       string                          `json:"message"`
	Results       []apppurchase.ReceiveItemResult `json:"results"`
	Errors        []apppurchase.ReceiveItemError  `json:"errors"`
	PurchaseOrder *purchase.PurchaseOrder         `json:"purchase_order"`
}

// Receive handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req apppurchase.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, err.Error())
		return
	}

	if userID := c.GetHeader("X-User-ID"); userID != "" {
		if id, err := uuid.Parse(userID); err == nil {
			req.CreatedBy = &id
		}
	}

	result, err := h.receiveService.Receive(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReceiveResponse{
		Success:       true,
		Message:       receiveMessage(result),
		Results:       result.Results,
		Errors:        result.Errors,
		PurchaseOrder: result.Order,
	})
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderRepo.FindByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if listReq.Page <= 0 {
		listReq.Page = 1
	}
	if listReq.PageSize <= 0 {
		listReq.PageSize = 20
	}

	filter := toFilter(listReq)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if partyID := c.Query("party_id"); partyID != "" {
		filter.Filters["party_id"] = partyID
	}

	orders, total, err := h.orderRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, listReq.Page, listReq.PageSize)
}

func receiveMessage(result *apppurchase.ReceiveResponse) string {
	if len(result.Errors) == 0 {
		return fmt.Sprintf("Received %d item(s)", len(result.Results))
	}
	return fmt.Sprintf("Received %d item(s), %d rejected", len(result.Results), len(result.Errors))
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/receive", h.Receive)
	}
}
