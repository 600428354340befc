package finance

import (
	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// TransactionAttachment records metadata for a document attached to a unified
// transaction. Only metadata is stored here; the bytes live wherever StoredName
// points.
type TransactionAttachment struct {
	shared.BaseEntity
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName      string    `gorm:"type:varchar(255);not null"`
	StoredName    string    `gorm:"type:varchar(255);not null"`
	ContentType   string    `gorm:"type:varchar(100)"`
	SizeBytes     int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TransactionAttachment) TableName() string {
	return "transaction_attachments"
}

// NewTransactionAttachment creates attachment metadata for a transaction
func NewTransactionAttachment(transactionID uuid.UUID, fileName, storedName string) (*TransactionAttachment, error) {
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	if fileName == "" || storedName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File name cannot be empty")
	}

	return &TransactionAttachment{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: transactionID,
		FileName:      fileName,
		StoredName:    storedName,
	}, nil
}

// WithContentType sets the MIME type
func (a *TransactionAttachment) WithContentType(contentType string) *TransactionAttachment {
	a.ContentType = contentType
	return a
}

// WithSize sets the file size in bytes
func (a *TransactionAttachment) WithSize(size int64) *TransactionAttachment {
	a.SizeBytes = size
	return a
}
