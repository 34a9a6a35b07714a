package ordering

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// AddressType distinguishes the address snapshots attached to an order
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// IsValid checks if the type is a valid AddressType
func (t AddressType) IsValid() bool {
	return t == AddressTypeShipping || t == AddressTypeBilling
}

// String returns the string representation of AddressType
func (t AddressType) String() string {
	return string(t)
}

// OrderItem is a line item owned by an Order. Product identity, name and
// prices are snapshotted at sale time so the record survives later catalog
// changes. Items are immutable after order creation in the happy path.
//
// TotalPriceHT/TotalPriceTTC are stored exactly as supplied by the cart and
// are deliberately not re-derived from unit price and quantity; reads must go
// through the reconciliation aggregator for authoritative totals.
type OrderItem struct {
	shared.BaseEntity
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
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

// TableName returns the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// ItemTotalHT returns the snapshotted pre-tax line total
func (i *OrderItem) ItemTotalHT() decimal.Decimal {
	return i.TotalPriceHT
}

// ItemTotalTTC returns the snapshotted tax-included line total
func (i *OrderItem) ItemTotalTTC() decimal.Decimal {
	return i.TotalPriceTTC
}

// NewOrderItem creates and validates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName, description, imageURL string, quantity int64, unitPriceHT, unitPriceTTC, vatRate, totalPriceHT, totalPriceTTC decimal.Decimal) (*OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order reference required")
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

	return &OrderItem{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       orderID,
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

// OrderAddress is an address snapshot attached to an order at creation time.
// The snapshot shape is caller-defined and never interpreted here.
type OrderAddress struct {
	shared.BaseEntity
	OrderID  uuid.UUID            `gorm:"type:uuid;not null;index" json:"order_id"`
	Type     AddressType          `gorm:"not null" json:"type"`
	Snapshot valueobject.Snapshot `gorm:"type:jsonb" json:"snapshot"`
}

// TableName returns the table name for OrderAddress
func (OrderAddress) TableName() string {
	return "order_addresses"
}

// NewOrderAddress creates and validates a new order address snapshot
func NewOrderAddress(orderID uuid.UUID, addrType AddressType, snapshot valueobject.Snapshot) (*OrderAddress, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order reference required")
	}
	if !addrType.IsValid() {
		return nil, shared.NewValidationError("address type must be shipping or billing")
	}

	return &OrderAddress{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Type:       addrType,
		Snapshot:   snapshot,
	}, nil
}

// Order is the order aggregate root. The stored totals are a best-effort
// cache of the item sums and can drift after administrative item edits;
// authoritative money always comes from the reconciliation aggregator.
type Order struct {
	shared.BaseEntity
	CustomerID       *uuid.UUID           `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerSnapshot valueobject.Snapshot `gorm:"type:jsonb" json:"customer_snapshot,omitempty"`
	TotalAmountHT    decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"total_amount_ht"`
	TotalAmountTTC   decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"total_amount_ttc"`
	PaymentMethod    string               `gorm:"not null" json:"payment_method"`
	PaymentReference *string              `gorm:"uniqueIndex" json:"payment_reference,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	Delivered        bool                 `gorm:"not null;default:false" json:"delivered"`
	Items            []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Addresses        []OrderAddress       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// TableName returns the table name for Order
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates and validates a new order header
func NewOrder(customerID *uuid.UUID, customerSnapshot valueobject.Snapshot, totals valueobject.Amounts, paymentMethod, notes string, paymentReference *string) (*Order, error) {
	if (customerID == nil || *customerID == uuid.Nil) && customerSnapshot.IsEmpty() {
		return nil, shared.NewValidationError("customer identity required")
	}
	if !totals.IsValid() {
		return nil, shared.NewValidationError("order totals must satisfy TTC >= HT >= 0")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, shared.NewValidationError("payment method required")
	}
	if paymentReference != nil && strings.TrimSpace(*paymentReference) == "" {
		paymentReference = nil
	}

	return &Order{
		BaseEntity:       shared.NewBaseEntity(),
		CustomerID:       customerID,
		CustomerSnapshot: customerSnapshot,
		TotalAmountHT:    totals.HT,
		TotalAmountTTC:   totals.TTC,
		PaymentMethod:    strings.TrimSpace(paymentMethod),
		PaymentReference: paymentReference,
		Notes:            notes,
		Delivered:        false,
	}, nil
}

// Totals returns the cached header totals
func (o *Order) Totals() valueobject.Amounts {
	return valueobject.NewAmounts(o.TotalAmountHT, o.TotalAmountTTC)
}

// HasPaymentReference returns true when an idempotency key is attached
func (o *Order) HasPaymentReference() bool {
	return o.PaymentReference != nil && *o.PaymentReference != ""
}
