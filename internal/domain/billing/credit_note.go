package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// CreditNoteStatus represents the refund status of a credit note
type CreditNoteStatus string

const (
	CreditNoteStatusPending  CreditNoteStatus = "pending"
	CreditNoteStatusRefunded CreditNoteStatus = "refunded"
)

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	return s == CreditNoteStatusPending || s == CreditNoteStatusRefunded
}

// String returns the string representation of CreditNoteStatus
func (s CreditNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The only permitted transition is pending -> refunded.
func (s CreditNoteStatus) CanTransitionTo(target CreditNoteStatus) bool {
	return s == CreditNoteStatusPending && target == CreditNoteStatusRefunded
}

// CreditNoteItem is a line item owned by a CreditNote. Same shape and
// invariants as an order item, scoped to the credit note.
type CreditNoteItem struct {
	shared.BaseEntity
	CreditNoteID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"credit_note_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName   string          `gorm:"not null" json:"product_name"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPriceHT   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price_ht"`
	UnitPriceTTC  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price_ttc"`
	VATRate       decimal.Decimal `gorm:"type:numeric(5,2)" json:"vat_rate"`
	TotalPriceHT  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price_ht"`
	TotalPriceTTC decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price_ttc"`
}

// TableName returns the table name for CreditNoteItem
func (CreditNoteItem) TableName() string {
	return "credit_note_items"
}

// ItemTotalHT returns the snapshotted pre-tax line total
func (i *CreditNoteItem) ItemTotalHT() decimal.Decimal {
	return i.TotalPriceHT
}

// ItemTotalTTC returns the snapshotted tax-included line total
func (i *CreditNoteItem) ItemTotalTTC() decimal.Decimal {
	return i.TotalPriceTTC
}

// NewCreditNoteItem creates and validates a new credit note line item
func NewCreditNoteItem(creditNoteID, productID uuid.UUID, productName, description, imageURL string, quantity int64, unitPriceHT, unitPriceTTC, vatRate, totalPriceHT, totalPriceTTC decimal.Decimal) (*CreditNoteItem, error) {
	if creditNoteID == uuid.Nil {
		return nil, shared.NewValidationError("credit note reference required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product reference required")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewValidationError("product name required")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return nil, shared.NewValidationError("unit price cannot be negative")
	}
	if unitPriceTTC.LessThan(unitPriceHT) {
		return nil, shared.NewValidationError("tax-included unit price cannot be below pre-tax unit price")
	}

	return &CreditNoteItem{
		BaseEntity:    shared.NewBaseEntity(),
		CreditNoteID:  creditNoteID,
		ProductID:     productID,
		ProductName:   strings.TrimSpace(productName),
		Description:   description,
		ImageURL:      imageURL,
		Quantity:      quantity,
		UnitPriceHT:   unitPriceHT,
		UnitPriceTTC:  unitPriceTTC,
		VATRate:       vatRate,
		TotalPriceHT:  totalPriceHT,
		TotalPriceTTC: totalPriceTTC,
	}, nil
}

// CreditNote is a refund document issued against an order. It references the
// order but is an independent aggregate with its own lifecycle: created
// pending, explicitly marked refunded once the money has moved.
type CreditNote struct {
	shared.BaseEntity
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	CustomerID     *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	TotalAmountHT  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"total_amount_ht"`
	TotalAmountTTC decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"total_amount_ttc"`
	Reason         string           `gorm:"not null" json:"reason"`
	Description    string           `json:"description,omitempty"`
	IssueDate      time.Time        `gorm:"not null" json:"issue_date"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Status         CreditNoteStatus `gorm:"not null;default:pending" json:"status"`
	Items          []CreditNoteItem `gorm:"foreignKey:CreditNoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for CreditNote
func (CreditNote) TableName() string {
	return "credit_notes"
}

// NewCreditNote creates and validates a new credit note header
func NewCreditNote(orderID uuid.UUID, customerID *uuid.UUID, totals valueobject.Amounts, reason, description, paymentMethod, notes string, issueDate time.Time) (*CreditNote, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order reference required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewValidationError("reason required")
	}
	if !totals.IsValid() {
		return nil, shared.NewValidationError("credit note totals must satisfy TTC >= HT >= 0")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	return &CreditNote{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        orderID,
		CustomerID:     customerID,
		TotalAmountHT:  totals.HT,
		TotalAmountTTC: totals.TTC,
		Reason:         strings.TrimSpace(reason),
		Description:    description,
		IssueDate:      issueDate,
		PaymentMethod:  paymentMethod,
		Notes:          notes,
		Status:         CreditNoteStatusPending,
	}, nil
}

// Totals returns the cached header totals
func (c *CreditNote) Totals() valueobject.Amounts {
	return valueobject.NewAmounts(c.TotalAmountHT, c.TotalAmountTTC)
}

// TransitionTo moves the credit note to the target status.
// Only pending -> refunded is permitted.
func (c *CreditNote) TransitionTo(target CreditNoteStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("invalid credit note status")
	}
	if !c.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "credit note status can only move from pending to refunded")
	}
	c.Status = target
	c.UpdatedAt = time.Now()
	return nil
}

// IsRefunded returns true if the credit note has been refunded
func (c *CreditNote) IsRefunded() bool {
	return c.Status == CreditNoteStatusRefunded
}
