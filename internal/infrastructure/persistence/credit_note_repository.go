package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/shared"
)

// GormCreditNoteRepository implements billing.CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// Create inserts a credit note header
func (r *GormCreditNoteRepository) Create(ctx context.Context, note *billing.CreditNote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error
}

// FindByID finds a credit note by its ID, preloading items
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CreditNote, error) {
	var note billing.CreditNote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("credit note not found")
		}
		return nil, err
	}
	return &note, nil
}

// FindAll finds credit notes matching the filter, newest first
func (r *GormCreditNoteRepository) FindAll(ctx context.Context, filter billing.CreditNoteFilter) ([]billing.CreditNote, error) {
	var notes []billing.CreditNote
	query := applyDateFilter(
		r.db.WithContext(ctx).Model(&billing.CreditNote{}),
		filter.CustomerID, filter.StartDate, filter.EndDate, filter.Year,
	)
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// FindByYear finds credit notes created within the calendar year, oldest first
func (r *GormCreditNoteRepository) FindByYear(ctx context.Context, year int) ([]billing.CreditNote, error) {
	start, end := yearInterval(year)
	var notes []billing.CreditNote
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateStatus persists a status transition and returns the fresh credit note
func (r *GormCreditNoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status billing.CreditNoteStatus) (*billing.CreditNote, error) {
	result := r.db.WithContext(ctx).
		Model(&billing.CreditNote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("credit note not found")
	}
	return r.FindByID(ctx, id)
}

// Delete removes a credit note and cascades to its items
func (r *GormCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("credit_note_id = ?", id).Delete(&billing.CreditNoteItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.CreditNote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("credit note not found")
		}
		return nil
	})
}

// Ensure GormCreditNoteRepository implements CreditNoteRepository
var _ billing.CreditNoteRepository = (*GormCreditNoteRepository)(nil)
