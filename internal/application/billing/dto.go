package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/billing"
)

// CreditNoteItemData is one refund line supplied by the caller. Prices and
// totals are snapshots and are stored as supplied.
type CreditNoteItemData struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	ProductName   string          `json:"product_name" binding:"required"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	Quantity      int64           `json:"quantity" binding:"required,gt=0"`
	UnitPriceHT   decimal.Decimal `json:"unit_price_ht" binding:"dgte0"`
	UnitPriceTTC  decimal.Decimal `json:"unit_price_ttc" binding:"dgte0"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	TotalPriceHT  decimal.Decimal `json:"total_price_ht" binding:"dgte0"`
	TotalPriceTTC decimal.Decimal `json:"total_price_ttc" binding:"dgte0"`
}

// CreateCreditNoteRequest represents a request to issue a credit note
// against an order
type CreateCreditNoteRequest struct {
	OrderID        uuid.UUID            `json:"order_id" binding:"required"`
	CustomerID     *uuid.UUID           `json:"customer_id"`
	TotalAmountHT  decimal.Decimal      `json:"total_amount_ht"`
	TotalAmountTTC decimal.Decimal      `json:"total_amount_ttc"`
	Reason         string               `json:"reason" binding:"required"`
	Description    string               `json:"description"`
	IssueDate      time.Time            `json:"issue_date"`
	PaymentMethod  string               `json:"payment_method"`
	Notes          string               `json:"notes"`
	Items          []CreditNoteItemData `json:"items"`
}

// UpdateCreditNoteStatusRequest represents a status transition request
type UpdateCreditNoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreditNoteListQuery filters credit note listings
type CreditNoteListQuery struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Year       *int       `form:"year"`
}

// CreditNoteItemResponse represents a refund line in API responses
type CreditNoteItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitPriceHT   decimal.Decimal `json:"unit_price_ht"`
	UnitPriceTTC  decimal.Decimal `json:"unit_price_ttc"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	TotalPriceHT  decimal.Decimal `json:"total_price_ht"`
	TotalPriceTTC decimal.Decimal `json:"total_price_ttc"`
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID             uuid.UUID                `json:"id"`
	OrderID        uuid.UUID                `json:"order_id"`
	CustomerID     *uuid.UUID               `json:"customer_id,omitempty"`
	TotalAmountHT  decimal.Decimal          `json:"total_amount_ht"`
	TotalAmountTTC decimal.Decimal          `json:"total_amount_ttc"`
	Reason         string                   `json:"reason"`
	Description    string                   `json:"description,omitempty"`
	IssueDate      time.Time                `json:"issue_date"`
	PaymentMethod  string                   `json:"payment_method,omitempty"`
	Notes          string                   `json:"notes,omitempty"`
	Status         string                   `json:"status"`
	Items          []CreditNoteItemResponse `json:"items"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// ToCreditNoteItemResponse converts a domain refund line to a response DTO
func ToCreditNoteItemResponse(item *billing.CreditNoteItem) CreditNoteItemResponse {
	return CreditNoteItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		Description:   item.Description,
		ImageURL:      item.ImageURL,
		Quantity:      item.Quantity,
		UnitPriceHT:   item.UnitPriceHT,
		UnitPriceTTC:  item.UnitPriceTTC,
		VATRate:       item.VATRate,
		TotalPriceHT:  item.TotalPriceHT,
		TotalPriceTTC: item.TotalPriceTTC,
	}
}

// ToCreditNoteResponse converts a domain credit note to a response DTO
func ToCreditNoteResponse(note *billing.CreditNote) CreditNoteResponse {
	items := make([]CreditNoteItemResponse, 0, len(note.Items))
	for i := range note.Items {
		items = append(items, ToCreditNoteItemResponse(&note.Items[i]))
	}
	return CreditNoteResponse{
		ID:             note.ID,
		OrderID:        note.OrderID,
		CustomerID:     note.CustomerID,
		TotalAmountHT:  note.TotalAmountHT,
		TotalAmountTTC: note.TotalAmountTTC,
		Reason:         note.Reason,
		Description:    note.Description,
		IssueDate:      note.IssueDate,
		PaymentMethod:  note.PaymentMethod,
		Notes:          note.Notes,
		Status:         note.Status.String(),
		Items:          items,
		CreatedAt:      note.CreatedAt,
		UpdatedAt:      note.UpdatedAt,
	}
}
