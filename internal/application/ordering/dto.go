package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// CartItemData is one cart line captured at checkout. Prices and totals are
// snapshots computed by the cart and stored as supplied.
type CartItemData struct {
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

// CartData is the checkout cart: its lines plus the cart-computed totals that
// seed the order header.
type CartData struct {
	Items      []CartItemData  `json:"items"`
	SubtotalHT decimal.Decimal `json:"subtotal_ht"`
	TotalTTC   decimal.Decimal `json:"total_ttc"`
}

// CreateOrderRequest represents a request to create an order from a cart
type CreateOrderRequest struct {
	Cart                  CartData             `json:"cart" binding:"required"`
	CustomerID            *uuid.UUID           `json:"customer_id"`
	CustomerSnapshot      valueobject.Snapshot `json:"customer_snapshot"`
	ShippingAddress       valueobject.Snapshot `json:"shipping_address"`
	BillingAddress        valueobject.Snapshot `json:"billing_address"`
	UseSameBillingAddress bool                 `json:"use_same_billing_address"`
	PaymentMethod         string               `json:"payment_method" binding:"required"`
	PaymentReference      *string              `json:"payment_reference"`
	Notes                 string               `json:"notes"`
}

// UpdateDeliveryRequest represents a request to change an order's delivery flag
type UpdateDeliveryRequest struct {
	Delivered *bool `json:"delivered" binding:"required"`
}

// OrderListQuery filters order listings
type OrderListQuery struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Year       *int       `form:"year"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
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

// OrderAddressResponse represents an address snapshot in API responses
type OrderAddressResponse struct {
	ID       uuid.UUID            `json:"id"`
	Type     string               `json:"type"`
	Snapshot valueobject.Snapshot `json:"snapshot"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID              `json:"id"`
	CustomerID       *uuid.UUID             `json:"customer_id,omitempty"`
	CustomerSnapshot valueobject.Snapshot   `json:"customer_snapshot,omitempty"`
	TotalAmountHT    decimal.Decimal        `json:"total_amount_ht"`
	TotalAmountTTC   decimal.Decimal        `json:"total_amount_ttc"`
	PaymentMethod    string                 `json:"payment_method"`
	PaymentReference *string                `json:"payment_reference,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	Delivered        bool                   `json:"delivered"`
	Items            []OrderItemResponse    `json:"items"`
	Addresses        []OrderAddressResponse `json:"addresses"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ToOrderItemResponse converts a domain line item to a response DTO
func ToOrderItemResponse(item *ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
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

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, ToOrderItemResponse(&order.Items[i]))
	}
	addresses := make([]OrderAddressResponse, 0, len(order.Addresses))
	for i := range order.Addresses {
		addresses = append(addresses, OrderAddressResponse{
			ID:       order.Addresses[i].ID,
			Type:     order.Addresses[i].Type.String(),
			Snapshot: order.Addresses[i].Snapshot,
		})
	}
	return OrderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		CustomerSnapshot: order.CustomerSnapshot,
		TotalAmountHT:    order.TotalAmountHT,
		TotalAmountTTC:   order.TotalAmountTTC,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		Notes:            order.Notes,
		Delivered:        order.Delivered,
		Items:            items,
		Addresses:        addresses,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}
