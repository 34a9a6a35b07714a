package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/shared"
)

// GormCreditNoteItemRepository implements billing.CreditNoteItemRepository using GORM
type GormCreditNoteItemRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteItemRepository creates a new GormCreditNoteItemRepository
func NewGormCreditNoteItemRepository(db *gorm.DB) *GormCreditNoteItemRepository {
	return &GormCreditNoteItemRepository{db: db}
}

// Create inserts a line item
func (r *GormCreditNoteItemRepository) Create(ctx context.Context, item *billing.CreditNoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByCreditNoteID returns the credit note's items in creation order
func (r *GormCreditNoteItemRepository) FindByCreditNoteID(ctx context.Context, creditNoteID uuid.UUID) ([]billing.CreditNoteItem, error) {
	var items []billing.CreditNoteItem
	if err := r.db.WithContext(ctx).
		Where("credit_note_id = ?", creditNoteID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a single line item
func (r *GormCreditNoteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.CreditNoteItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("credit note item not found")
	}
	return nil
}

// Ensure GormCreditNoteItemRepository implements CreditNoteItemRepository
var _ billing.CreditNoteItemRepository = (*GormCreditNoteItemRepository)(nil)
