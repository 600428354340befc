package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apptransaction "github.com/storeops/backend/internal/application/transaction"
	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// TransactionHandler handles unified transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	service        *apptransaction.Service
	txRepo         finance.UnifiedTransactionRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	service *apptransaction.Service,
	txRepo finance.UnifiedTransactionRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		service:        service,
		txRepo:         txRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

// Create handles POST /transactions. A duplicate Idempotency-Key is rejected
// with 409; the key is claimed only once the request validates, so a 400
// never burns the key for the corrected retry. An unreachable idempotency
// store is logged and the request proceeds.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req apptransaction.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if result := apptransaction.Validate(req); !result.Valid {
		c.JSON(http.StatusBadRequest, dto.NewFieldErrorsResponse(
			result.Errors,
			"Transaction validation failed",
		))
		return
	}

	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		claimed, err := h.idempotency.MarkProcessed(c.Request.Context(), key, h.idempotencyTTL)
		if err != nil {
			h.logger.Warn("idempotency store unavailable, proceeding without deduplication",
				zap.Error(err))
		} else if !claimed {
			h.Conflict(c, dto.ErrCodeDuplicateRequest, "A transaction with this idempotency key was already submitted")
			return
		}
	}

	if userID := c.GetHeader("X-User-ID"); userID != "" {
		if id, err := uuid.Parse(userID); err == nil {
			req.CreatedBy = &id
		}
	}

	resp, err := h.service.Execute(c.Request.Context(), req)
	if err != nil {
		h.handleExecuteError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	tx, err := h.txRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

func (h *TransactionHandler) handleExecuteError(c *gin.Context, err error) {
	var validationErr *apptransaction.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.NewFieldErrorsResponse(
			validationErr.Result.Errors,
			"Transaction validation failed",
		))
		return
	}

	var sagaErr *apptransaction.SagaError
	if errors.As(err, &sagaErr) {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeRemoteStore, sagaErr.Error())
		return
	}

	h.HandleDomainError(c, err)
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.Create)
		transactions.GET("/:id", h.GetByID)
	}
}
