package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/oms/backend/internal/application/billing"
	appordering "github.com/oms/backend/internal/application/ordering"
)

// StatisticsQuery filters the documents feeding the net revenue computation
type StatisticsQuery struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Year       *int       `form:"year"`
}

// StatisticsResponse carries net revenue for the filtered period along with
// the gross sums it was derived from. TotalAmountHT/TTC are floor-clamped at
// zero: a period with more refunds than sales reports 0, never a negative.
type StatisticsResponse struct {
	TotalAmountHT       decimal.Decimal `json:"total_amount_ht"`
	TotalAmountTTC      decimal.Decimal `json:"total_amount_ttc"`
	OrderCount          int             `json:"order_count"`
	CreditNoteCount     int             `json:"credit_note_count"`
	OrdersTotalHT       decimal.Decimal `json:"orders_total_ht"`
	OrdersTotalTTC      decimal.Decimal `json:"orders_total_ttc"`
	CreditNotesTotalHT  decimal.Decimal `json:"credit_notes_total_ht"`
	CreditNotesTotalTTC decimal.Decimal `json:"credit_notes_total_ttc"`
}

// OrderExportRecord is a denormalized order for year-end export: the header
// with reconciled totals, its items and its address snapshots.
type OrderExportRecord struct {
	appordering.OrderResponse
}

// CreditNoteExportRecord is a denormalized credit note for year-end export
type CreditNoteExportRecord struct {
	appbilling.CreditNoteResponse
}

// YearExportResponse bundles every document created in the export year
type YearExportResponse struct {
	Year        int                      `json:"year"`
	Orders      []OrderExportRecord      `json:"orders"`
	CreditNotes []CreditNoteExportRecord `json:"credit_notes"`
}
