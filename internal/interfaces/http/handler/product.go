package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/storeops/backend/internal/application/inventory"
	"github.com/storeops/backend/internal/domain/inventory"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	stockService *appinventory.StockService
	productRepo  inventory.ProductRepository
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(stockService *appinventory.StockService, productRepo inventory.ProductRepository) *ProductHandler {
	return &ProductHandler{
		stockService: stockService,
		productRepo:  productRepo,
	}
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productRepo.FindByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// StockMovements handles GET /products/:id/stock-movements
func (h *ProductHandler) StockMovements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	movements, err := h.stockService.Movements(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/:id", h.GetByID)
		products.GET("/:id/stock-movements", h.StockMovements)
	}
}
