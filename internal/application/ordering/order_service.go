package ordering

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// OrderService orchestrates order creation from a checkout cart and the
// order lifecycle operations that follow it.
type OrderService struct {
	orders ordering.OrderRepository
	scope  TransactionScope
	logger *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders ordering.OrderRepository, scope TransactionScope, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		scope:  scope,
		logger: logger,
	}
}

// CreateOrderFromCart converts a cart into a persisted order. The header,
// every line item and the address snapshots are written in one transaction:
// any failure past the header insert rolls the whole document back.
//
// When the request carries a payment reference the operation is idempotent:
// a retry with the same reference returns the already-created order without
// writing anything new. Concurrent retries are resolved by the unique index
// on payment_reference, not by application-level locking.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Cart.Items) == 0 {
		return nil, shared.NewValidationError("cart is empty")
	}

	totals := valueobject.NewAmounts(req.Cart.SubtotalHT, req.Cart.TotalTTC)
	order, err := ordering.NewOrder(req.CustomerID, req.CustomerSnapshot, totals, req.PaymentMethod, req.Notes, req.PaymentReference)
	if err != nil {
		return nil, err
	}

	// Fast path for retried payment webhooks. The ON CONFLICT upsert below is
	// the actual guard; this read just avoids opening a transaction for the
	// common sequential-retry case.
	if order.HasPaymentReference() {
		existing, err := s.orders.FindByPaymentReference(ctx, *order.PaymentReference)
		if err == nil {
			s.logger.Info("order creation short-circuited by payment reference",
				zap.String("order_id", existing.ID.String()),
				zap.String("payment_reference", *order.PaymentReference))
			resp := ToOrderResponse(existing)
			return &resp, nil
		}
		if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	var result *ordering.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Orders().Create(ctx, order); err != nil {
			return shared.NewOrderCreationError("header", err)
		}

		if order.HasPaymentReference() {
			canonical, err := repos.Orders().FindByPaymentReference(ctx, *order.PaymentReference)
			if err != nil {
				return shared.NewOrderCreationError("header", err)
			}
			if canonical.ID != order.ID {
				// A concurrent request with the same reference won the upsert.
				// Keep its document and write nothing for ours.
				result = canonical
				return nil
			}
		}

		for _, line := range req.Cart.Items {
			item, err := ordering.NewOrderItem(
				order.ID, line.ProductID,
				line.ProductName, line.Description, line.ImageURL,
				line.Quantity,
				line.UnitPriceHT, line.UnitPriceTTC, line.VATRate,
				line.TotalPriceHT, line.TotalPriceTTC,
			)
			if err != nil {
				return shared.NewOrderCreationError("items", err)
			}
			if err := repos.OrderItems().Create(ctx, item); err != nil {
				return shared.NewOrderCreationError("items", err)
			}
			order.Items = append(order.Items, *item)
		}

		if !req.ShippingAddress.IsEmpty() {
			shipping, err := ordering.NewOrderAddress(order.ID, ordering.AddressTypeShipping, req.ShippingAddress)
			if err != nil {
				return shared.NewOrderCreationError("addresses", err)
			}
			if err := repos.OrderAddresses().Create(ctx, shipping); err != nil {
				return shared.NewOrderCreationError("addresses", err)
			}
			order.Addresses = append(order.Addresses, *shipping)
		}

		// The billing snapshot is stored only when it adds information:
		// "same as shipping" collapses onto the shipping snapshot and a
		// duplicate of it is skipped. A billing address without a shipping
		// address is still persisted.
		billingSnapshot := req.BillingAddress
		if req.UseSameBillingAddress {
			billingSnapshot = req.ShippingAddress
		}
		if !billingSnapshot.IsEmpty() && !billingSnapshot.Equals(req.ShippingAddress) {
			billing, err := ordering.NewOrderAddress(order.ID, ordering.AddressTypeBilling, billingSnapshot)
			if err != nil {
				return shared.NewOrderCreationError("addresses", err)
			}
			if err := repos.OrderAddresses().Create(ctx, billing); err != nil {
				return shared.NewOrderCreationError("addresses", err)
			}
			order.Addresses = append(order.Addresses, *billing)
		}

		result = order
		return nil
	})
	if err != nil {
		s.logger.Error("order creation failed", zap.Error(err))
		if shared.IsCreationError(err) {
			return nil, err
		}
		return nil, shared.NewOrderCreationError("commit", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", result.ID.String()),
		zap.Int("items", len(result.Items)))
	resp := ToOrderResponse(result)
	return &resp, nil
}

// GetOrder returns the stored order document with items and addresses.
// Header totals here are the cached values; callers needing authoritative
// money must go through the reconciliation reader.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders returns orders matching the query, newest first
func (s *OrderService) ListOrders(ctx context.Context, query OrderListQuery) ([]OrderResponse, error) {
	orders, err := s.orders.FindAll(ctx, ordering.OrderFilter{
		CustomerID: query.CustomerID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Year:       query.Year,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, nil
}

// UpdateDeliveryStatus flips the order's delivered flag
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, delivered bool) (*OrderResponse, error) {
	order, err := s.orders.UpdateDeliveryStatus(ctx, id, delivered)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order delivery status updated",
		zap.String("order_id", id.String()),
		zap.Bool("delivered", delivered))
	resp := ToOrderResponse(order)
	return &resp, nil
}

// DeleteOrder removes an order and all its items and addresses
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.String("order_id", id.String()))
	return nil
}
