package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptransaction "github.com/storeops/backend/internal/application/transaction"
	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/infrastructure/cache"
)

// stubTxJournal accepts every write; enough for the expense happy path
type stubTxJournal struct {
	finance.UnifiedTransactionRepository
}

func (stubTxJournal) NextReferenceNumber(ctx context.Context) (string, error) {
	return "TXN-2026-00099", nil
}

func (stubTxJournal) Create(ctx context.Context, tx *finance.UnifiedTransaction) error {
	return nil
}

type stubExpenseStore struct {
	finance.ExpenseRepository
}

func (stubExpenseStore) Create(ctx context.Context, expense *finance.Expense) error {
	return nil
}

func newTransactionTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Stubs cover the party-less expense path; everything else never leaves
	// validation, so the remaining repositories can stay nil.
	service := apptransaction.NewService(stubTxJournal{}, stubExpenseStore{}, nil, nil, nil, nil, zap.NewNop())
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	h := NewTransactionHandler(service, nil, store, time.Hour, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine
}

func TestTransactionHandler_ValidationFailureShape(t *testing.T) {
	engine := newTransactionTestRouter(t)

	body := `{
		"expense_category": "Vendor Order",
		"transaction_date": "2026-08-15",
		"items": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Contains(t, resp.Errors, "items")
}

func TestTransactionHandler_MalformedJSON(t *testing.T) {
	engine := newTransactionTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHandler_DuplicateIdempotencyKey(t *testing.T) {
	engine := newTransactionTestRouter(t)

	body := `{"expense_category": "Utilities", "transaction_date": "2026-08-15", "total_amount": 250}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "txn-test-key-1")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	// First submission validates, claims the key and goes through.
	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)

	// Resubmission with the same key is rejected before any work.
	second := send()
	assert.Equal(t, http.StatusConflict, second.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_DUPLICATE_REQUEST", resp.Error.Code)
}

func TestTransactionHandler_RejectedRequestDoesNotBurnIdempotencyKey(t *testing.T) {
	engine := newTransactionTestRouter(t)

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "txn-test-key-2")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	// A validation failure must leave the key unclaimed
	invalid := send(`{"expense_category": "Utilities", "transaction_date": "2026-08-15"}`)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)

	// The corrected retry with the same key succeeds instead of hitting 409
	retry := send(`{"expense_category": "Utilities", "transaction_date": "2026-08-15", "total_amount": 250}`)
	assert.Equal(t, http.StatusCreated, retry.Code)
}
