package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// CreditNoteService orchestrates credit note issuance and the pending to
// refunded lifecycle.
type CreditNoteService struct {
	notes  billing.CreditNoteRepository
	scope  TransactionScope
	logger *zap.Logger
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(notes billing.CreditNoteRepository, scope TransactionScope, logger *zap.Logger) *CreditNoteService {
	return &CreditNoteService{
		notes:  notes,
		scope:  scope,
		logger: logger,
	}
}

// CreateCreditNote issues a credit note against an order. When refund lines
// are supplied the header and every line are written in one transaction: any
// line failure rolls the whole document back. A request without lines is a
// plain header insert.
func (s *CreditNoteService) CreateCreditNote(ctx context.Context, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	totals := valueobject.NewAmounts(req.TotalAmountHT, req.TotalAmountTTC)
	note, err := billing.NewCreditNote(req.OrderID, req.CustomerID, totals, req.Reason, req.Description, req.PaymentMethod, req.Notes, req.IssueDate)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		if err := s.notes.Create(ctx, note); err != nil {
			s.logger.Error("credit note creation failed", zap.Error(err))
			return nil, shared.NewCreditNoteCreationError("header", err)
		}
		s.logger.Info("credit note created",
			zap.String("credit_note_id", note.ID.String()),
			zap.String("order_id", note.OrderID.String()))
		resp := ToCreditNoteResponse(note)
		return &resp, nil
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.CreditNotes().Create(ctx, note); err != nil {
			return shared.NewCreditNoteCreationError("header", err)
		}
		for _, line := range req.Items {
			item, err := billing.NewCreditNoteItem(
				note.ID, line.ProductID,
				line.ProductName, line.Description, line.ImageURL,
				line.Quantity,
				line.UnitPriceHT, line.UnitPriceTTC, line.VATRate,
				line.TotalPriceHT, line.TotalPriceTTC,
			)
			if err != nil {
				return shared.NewCreditNoteCreationError("items", err)
			}
			if err := repos.CreditNoteItems().Create(ctx, item); err != nil {
				return shared.NewCreditNoteCreationError("items", err)
			}
			note.Items = append(note.Items, *item)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("credit note creation failed", zap.Error(err))
		if shared.IsCreationError(err) {
			return nil, err
		}
		return nil, shared.NewCreditNoteCreationError("commit", err)
	}

	s.logger.Info("credit note created",
		zap.String("credit_note_id", note.ID.String()),
		zap.String("order_id", note.OrderID.String()),
		zap.Int("items", len(note.Items)))
	resp := ToCreditNoteResponse(note)
	return &resp, nil
}

// GetCreditNote returns the stored credit note with its refund lines.
// Header totals here are the cached values; callers needing authoritative
// money must go through the reconciliation reader.
func (s *CreditNoteService) GetCreditNote(ctx context.Context, id uuid.UUID) (*CreditNoteResponse, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCreditNoteResponse(note)
	return &resp, nil
}

// ListCreditNotes returns credit notes matching the query, newest first
func (s *CreditNoteService) ListCreditNotes(ctx context.Context, query CreditNoteListQuery) ([]CreditNoteResponse, error) {
	notes, err := s.notes.FindAll(ctx, billing.CreditNoteFilter{
		CustomerID: query.CustomerID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Year:       query.Year,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]CreditNoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, ToCreditNoteResponse(&notes[i]))
	}
	return responses, nil
}

// UpdateCreditNoteStatus applies a status transition. The domain enforces
// that only pending notes can move, and only to refunded; anything else is
// rejected without touching the stored row.
func (s *CreditNoteService) UpdateCreditNoteStatus(ctx context.Context, id uuid.UUID, status string) (*CreditNoteResponse, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := billing.CreditNoteStatus(status)
	if err := note.TransitionTo(target); err != nil {
		return nil, err
	}

	updated, err := s.notes.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	s.logger.Info("credit note status updated",
		zap.String("credit_note_id", id.String()),
		zap.String("status", target.String()))
	resp := ToCreditNoteResponse(updated)
	return &resp, nil
}

// DeleteCreditNote removes a credit note and its refund lines
func (s *CreditNoteService) DeleteCreditNote(ctx context.Context, id uuid.UUID) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("credit note deleted", zap.String("credit_note_id", id.String()))
	return nil
}
