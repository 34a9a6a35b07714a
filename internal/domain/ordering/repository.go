package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderFilter narrows statistics and listing queries. Year takes a calendar
// year and expands to the half-open interval [Jan 1, next Jan 1) in UTC.
type OrderFilter struct {
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Year       *int
}

// OrderRepository persists order headers.
//
// Create is an idempotent upsert when the order carries a payment reference:
// a concurrent or retried insert with the same reference must not produce a
// duplicate row. The conflict action is a no-op touch of updated_at, enforced
// by the storage layer's unique constraint rather than a check-then-insert.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByPaymentReference(ctx context.Context, reference string) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)
	FindByYear(ctx context.Context, year int) ([]Order, error)
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, delivered bool) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderItemRepository persists order line items.
// FindByOrderID returns items ordered by creation time ascending for a
// stable display order.
type OrderItemRepository interface {
	Create(ctx context.Context, item *OrderItem) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderAddressRepository persists address snapshots attached to an order
type OrderAddressRepository interface {
	Create(ctx context.Context, address *OrderAddress) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]OrderAddress, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
