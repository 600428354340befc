package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/finance"
	"github.com/storeops/backend/internal/domain/partner"
)

// DateLayout is the wire format of all dates in the intake contract
const DateLayout = "2006-01-02"

// PaymentMethodDetails carries the instrument-specific fields of a payment
type PaymentMethodDetails struct {
	ReferenceNumber string `json:"reference_number,omitempty"`
	ChequeNumber    string `json:"cheque_number,omitempty"`
	ReleaseDate     string `json:"release_date,omitempty"` // YYYY-MM-DD
}

// PaymentMethodInput describes how a transaction was paid
type PaymentMethodInput struct {
	Type    string                `json:"type"`
	Details *PaymentMethodDetails `json:"details,omitempty"`
}

// PartyRef identifies a party involved in the transaction
type PartyRef struct {
	PartyID uuid.UUID `json:"party_id"`
	Name    string    `json:"name,omitempty"`
}

// TransactionItemInput is one ordered line of a vendor order
type TransactionItemInput struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	VendorName  string          `json:"vendor_name,omitempty"`
}

// AttachmentInput is metadata for a document already stored elsewhere
type AttachmentInput struct {
	FileName    string `json:"file_name"`
	StoredName  string `json:"stored_name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

// CreateTransactionRequest is the intake contract for all three transaction
// shapes: vendor order, vendor payment, and regular expense. The declared
// expense_category decides which fields are required (see Validate).
type CreateTransactionRequest struct {
	ExpenseCategory      string                 `json:"expense_category" binding:"required"`
	Description          string                 `json:"description"`
	TotalAmount          *decimal.Decimal       `json:"total_amount,omitempty"`
	TransactionDate      string                 `json:"transaction_date" binding:"required"`
	PaymentMethod        *PaymentMethodInput    `json:"payment_method,omitempty"`
	Parties              []PartyRef             `json:"parties,omitempty"`
	Items                []TransactionItemInput `json:"items,omitempty"`
	Notes                string                 `json:"notes,omitempty"`
	ExpectedDeliveryDate string                 `json:"expected_delivery_date,omitempty"`
	PaymentTerms         string                 `json:"payment_terms,omitempty"`
	Priority             string                 `json:"priority,omitempty"`
	ReferenceNumber      string                 `json:"reference_number,omitempty"`
	Attachments          []AttachmentInput      `json:"attachments,omitempty"`
	CreatedBy            *uuid.UUID             `json:"-"`
}

// IsVendorOrder returns true for the purchase-order-backed category
func (r *CreateTransactionRequest) IsVendorOrder() bool {
	return r.ExpenseCategory == finance.CategoryVendorOrder
}

// IsVendorPayment returns true for the party-payment-backed category
func (r *CreateTransactionRequest) IsVendorPayment() bool {
	return r.ExpenseCategory == finance.CategoryVendorPayment
}

// PrimaryParty returns the first party reference carrying a real party id;
// name-only entries are not usable references
func (r *CreateTransactionRequest) PrimaryParty() *PartyRef {
	for i := range r.Parties {
		if r.Parties[i].PartyID != uuid.Nil {
			return &r.Parties[i]
		}
	}
	return nil
}

// ItemsTotal returns the sum of quantity*unit_price across all items
func (r *CreateTransactionRequest) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].Quantity.Mul(r.Items[i].UnitPrice))
	}
	return total
}

// paymentMethodFor maps the wire payment type onto the domain method
func paymentMethodFor(input *PaymentMethodInput) partner.PaymentMethod {
	return partner.PaymentMethod(input.Type)
}

// CreatedRecord names one row written by the orchestrator
type CreatedRecord struct {
	Type string    `json:"type"` // expense | purchase_order | party_payment | attachment
	ID   uuid.UUID `json:"id"`
}

// CreateTransactionResponse is the success payload of the intake operation
type CreateTransactionResponse struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionType string          `json:"transaction_type"`
	ReferenceNumber string          `json:"reference_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	CreatedRecords  []CreatedRecord `json:"created_records"`
}

// parseDate parses a YYYY-MM-DD wire date
func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, value)
	return t, err == nil
}
