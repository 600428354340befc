package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/finance"
)

// GormAttachmentRepository is the GORM implementation of finance.AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new attachment repository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

func (r *GormAttachmentRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*finance.TransactionAttachment, error) {
	var attachments []*finance.TransactionAttachment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *GormAttachmentRepository) Create(ctx context.Context, attachment *finance.TransactionAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *GormAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.TransactionAttachment{}, "id = ?", id).Error
}
