package transaction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/partner"
)

// ValidationResult is the outcome of intake validation: a field→message map
// of everything wrong with the request, or Valid when the map is empty.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: make(map[string]string)}
}

func (r *ValidationResult) addError(field, message string) {
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
	r.Valid = false
}

// Validate checks the semantic rules of a transaction request per its declared
// category. It performs no I/O and never panics; callers get every field
// error in one pass.
func Validate(req CreateTransactionRequest) ValidationResult {
	result := newValidationResult()

	if req.ExpenseCategory == "" {
		result.addError("expense_category", "Expense category is required")
	}
	if req.TransactionDate == "" {
		result.addError("transaction_date", "Transaction date is required")
	} else if _, ok := parseDate(req.TransactionDate); !ok {
		result.addError("transaction_date", "Transaction date must be YYYY-MM-DD")
	}

	switch {
	case req.IsVendorOrder():
		validateVendorOrder(&req, result)
	case req.IsVendorPayment():
		validateVendorPayment(&req, result)
	default:
		validateRegularExpense(&req, result)
	}

	return *result
}

func validateVendorOrder(req *CreateTransactionRequest, result *ValidationResult) {
	if len(req.Items) == 0 {
		result.addError("items", "Vendor order requires at least one item")
		return
	}

	orderVendor := req.PrimaryParty()
	for i := range req.Items {
		item := &req.Items[i]
		field := itemField(i)
		if item.ItemName == "" {
			result.addError(field+".item_name", "Item name is required")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			result.addError(field+".quantity", "Quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			result.addError(field+".unit_price", "Unit price cannot be negative")
		}
		if item.VendorID == nil && orderVendor == nil {
			result.addError(field+".vendor_id", "Item needs a vendor, either its own or the order's")
		}
	}

	// Orders can be placed on credit; a payment method is validated only when present
	if req.PaymentMethod != nil {
		validatePaymentMethod(req.PaymentMethod, result)
	}
}

func validateVendorPayment(req *CreateTransactionRequest, result *ValidationResult) {
	if req.PrimaryParty() == nil {
		result.addError("parties", "Vendor payment requires a party")
	}
	if req.TotalAmount == nil || req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		result.addError("total_amount", "Total amount must be positive")
	}
	if req.PaymentMethod == nil {
		result.addError("payment_method", "Vendor payment requires a payment method")
	} else {
		validatePaymentMethod(req.PaymentMethod, result)
	}
}

func validateRegularExpense(req *CreateTransactionRequest, result *ValidationResult) {
	if req.TotalAmount == nil || req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		result.addError("total_amount", "Total amount must be positive")
	}
	if req.PaymentMethod != nil {
		validatePaymentMethod(req.PaymentMethod, result)
	}
}

// validatePaymentMethod applies the instrument-specific field rules:
// cash needs nothing, upi accepts an optional reference, cheque requires a
// cheque number and a release date.
func validatePaymentMethod(pm *PaymentMethodInput, result *ValidationResult) {
	method := partner.PaymentMethod(pm.Type)
	if !method.IsValid() {
		result.addError("payment_method.type", "Payment method must be cash, upi or cheque")
		return
	}

	if method != partner.PaymentMethodCheque {
		return
	}

	if pm.Details == nil || pm.Details.ChequeNumber == "" {
		result.addError("payment_method.details.cheque_number", "Cheque payments require a cheque number")
	}
	if pm.Details == nil || pm.Details.ReleaseDate == "" {
		result.addError("payment_method.details.release_date", "Cheque payments require a release date")
	} else if _, ok := parseDate(pm.Details.ReleaseDate); !ok {
		result.addError("payment_method.details.release_date", "Release date must be YYYY-MM-DD")
	}
}

func itemField(index int) string {
	return fmt.Sprintf("items[%d]", index)
}
