package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/oms/backend/internal/application/billing"
	appordering "github.com/oms/backend/internal/application/ordering"
	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// Export is refused for years before the store went live.
const minExportYear = 2025

// ReconciliationService is the single source of truth for displayed and
// exported money. The total columns stored on order and credit note headers
// are a cache that can drift after administrative item edits; every read
// here recomputes totals from the line items and falls back to the header
// only when a document has no items.
type ReconciliationService struct {
	orders          ordering.OrderRepository
	orderItems      ordering.OrderItemRepository
	orderAddresses  ordering.OrderAddressRepository
	creditNotes     billing.CreditNoteRepository
	creditNoteItems billing.CreditNoteItemRepository
	logger          *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	orders ordering.OrderRepository,
	orderItems ordering.OrderItemRepository,
	orderAddresses ordering.OrderAddressRepository,
	creditNotes billing.CreditNoteRepository,
	creditNoteItems billing.CreditNoteItemRepository,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		orders:          orders,
		orderItems:      orderItems,
		orderAddresses:  orderAddresses,
		creditNotes:     creditNotes,
		creditNoteItems: creditNoteItems,
		logger:          logger,
	}
}

// reconcileOrderItems recomputes order totals from a loaded item slice
func reconcileOrderItems(items []ordering.OrderItem, header valueobject.Amounts) valueobject.Amounts {
	refs := make([]*ordering.OrderItem, 0, len(items))
	for i := range items {
		refs = append(refs, &items[i])
	}
	return valueobject.SumItemTotals(refs, header)
}

// reconcileCreditNoteItems recomputes credit note totals from a loaded item slice
func reconcileCreditNoteItems(items []billing.CreditNoteItem, header valueobject.Amounts) valueobject.Amounts {
	refs := make([]*billing.CreditNoteItem, 0, len(items))
	for i := range items {
		refs = append(refs, &items[i])
	}
	return valueobject.SumItemTotals(refs, header)
}

// GetReconciledOrder returns the order with authoritative totals recomputed
// from its line items. Orders without items keep their header totals.
func (s *ReconciliationService) GetReconciledOrder(ctx context.Context, id uuid.UUID) (*appordering.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	totals := reconcileOrderItems(order.Items, order.Totals())
	resp := appordering.ToOrderResponse(order)
	resp.TotalAmountHT = totals.HT
	resp.TotalAmountTTC = totals.TTC
	return &resp, nil
}

// GetReconciledCreditNote returns the credit note with authoritative totals
// recomputed from its refund lines
func (s *ReconciliationService) GetReconciledCreditNote(ctx context.Context, id uuid.UUID) (*appbilling.CreditNoteResponse, error) {
	note, err := s.creditNotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	totals := reconcileCreditNoteItems(note.Items, note.Totals())
	resp := appbilling.ToCreditNoteResponse(note)
	resp.TotalAmountHT = totals.HT
	resp.TotalAmountTTC = totals.TTC
	return &resp, nil
}

// GetStatistics sums reconciled order totals and reconciled credit note
// totals for the filtered period and returns the net revenue, each of HT and
// TTC independently floor-clamped at zero.
func (s *ReconciliationService) GetStatistics(ctx context.Context, query StatisticsQuery) (*StatisticsResponse, error) {
	orders, err := s.orders.FindAll(ctx, ordering.OrderFilter{
		CustomerID: query.CustomerID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Year:       query.Year,
	})
	if err != nil {
		return nil, err
	}
	ordersTotal := valueobject.ZeroAmounts()
	for i := range orders {
		items, err := s.orderItems.FindByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		ordersTotal = ordersTotal.Add(reconcileOrderItems(items, orders[i].Totals()))
	}

	notes, err := s.creditNotes.FindAll(ctx, billing.CreditNoteFilter{
		CustomerID: query.CustomerID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Year:       query.Year,
	})
	if err != nil {
		return nil, err
	}
	notesTotal := valueobject.ZeroAmounts()
	for i := range notes {
		items, err := s.creditNoteItems.FindByCreditNoteID(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notesTotal = notesTotal.Add(reconcileCreditNoteItems(items, notes[i].Totals()))
	}

	net := ordersTotal.Sub(notesTotal).ClampZero().Round2()
	return &StatisticsResponse{
		TotalAmountHT:       net.HT,
		TotalAmountTTC:      net.TTC,
		OrderCount:          len(orders),
		CreditNoteCount:     len(notes),
		OrdersTotalHT:       ordersTotal.HT,
		OrdersTotalTTC:      ordersTotal.TTC,
		CreditNotesTotalHT:  notesTotal.HT,
		CreditNotesTotalTTC: notesTotal.TTC,
	}, nil
}

// GetYearExportData produces the denormalized export for every order and
// credit note created in the given calendar year, totals reconciled from
// line items. Each record set is deep-copied through a JSON round trip so no
// driver-internal values can leak to the caller; a round trip that changes
// the record count is a fatal integrity error and is never masked.
func (s *ReconciliationService) GetYearExportData(ctx context.Context, year int) (*YearExportResponse, error) {
	if year < minExportYear {
		return nil, shared.NewValidationError(fmt.Sprintf("export year must be %d or later", minExportYear))
	}

	orders, err := s.orders.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	orderRecords := make([]OrderExportRecord, 0, len(orders))
	for i := range orders {
		items, err := s.orderItems.FindByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		addresses, err := s.orderAddresses.FindByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
		orders[i].Addresses = addresses
		totals := reconcileOrderItems(items, orders[i].Totals())
		resp := appordering.ToOrderResponse(&orders[i])
		resp.TotalAmountHT = totals.HT
		resp.TotalAmountTTC = totals.TTC
		orderRecords = append(orderRecords, OrderExportRecord{OrderResponse: resp})
	}

	notes, err := s.creditNotes.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	noteRecords := make([]CreditNoteExportRecord, 0, len(notes))
	for i := range notes {
		items, err := s.creditNoteItems.FindByCreditNoteID(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].Items = items
		totals := reconcileCreditNoteItems(items, notes[i].Totals())
		resp := appbilling.ToCreditNoteResponse(&notes[i])
		resp.TotalAmountHT = totals.HT
		resp.TotalAmountTTC = totals.TTC
		noteRecords = append(noteRecords, CreditNoteExportRecord{CreditNoteResponse: resp})
	}

	copiedOrders, err := deepCopyRecords(orderRecords)
	if err != nil {
		return nil, err
	}
	copiedNotes, err := deepCopyRecords(noteRecords)
	if err != nil {
		return nil, err
	}
	if len(copiedOrders) != len(orderRecords) || len(copiedNotes) != len(noteRecords) {
		s.logger.Error("export round trip lost records",
			zap.Int("year", year),
			zap.Int("orders_before", len(orderRecords)),
			zap.Int("orders_after", len(copiedOrders)),
			zap.Int("credit_notes_before", len(noteRecords)),
			zap.Int("credit_notes_after", len(copiedNotes)))
		return nil, shared.NewIntegrityError("export serialization lost records")
	}

	return &YearExportResponse{
		Year:        year,
		Orders:      copiedOrders,
		CreditNotes: copiedNotes,
	}, nil
}

// deepCopyRecords clones a record slice through a JSON round trip
func deepCopyRecords[T any](records []T) ([]T, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, shared.NewIntegrityError("export serialization failed: " + err.Error())
	}
	copied := make([]T, 0, len(records))
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, shared.NewIntegrityError("export deserialization failed: " + err.Error())
	}
	return copied, nil
}
