package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreditNoteFilter narrows statistics and listing queries. Year expands to
// the half-open interval [Jan 1, next Jan 1) in UTC on the creation timestamp.
type CreditNoteFilter struct {
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Year       *int
}

// CreditNoteRepository persists credit note headers
type CreditNoteRepository interface {
	Create(ctx context.Context, note *CreditNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)
	FindAll(ctx context.Context, filter CreditNoteFilter) ([]CreditNote, error)
	FindByYear(ctx context.Context, year int) ([]CreditNote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status CreditNoteStatus) (*CreditNote, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditNoteItemRepository persists credit note line items.
// FindByCreditNoteID returns items ordered by creation time ascending.
type CreditNoteItemRepository interface {
	Create(ctx context.Context, item *CreditNoteItem) error
	FindByCreditNoteID(ctx context.Context, creditNoteID uuid.UUID) ([]CreditNoteItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
