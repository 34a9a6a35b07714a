package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentReference(ctx context.Context, reference string) (*ordering.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter ordering.OrderFilter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByYear(ctx context.Context, year int) ([]ordering.Order, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, delivered bool) (*ordering.Order, error) {
	args := m.Called(ctx, id, delivered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderItemRepository is a mock implementation of ordering.OrderItemRepository
type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *ordering.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderAddressRepository is a mock implementation of ordering.OrderAddressRepository
type MockOrderAddressRepository struct {
	mock.Mock
}

func (m *MockOrderAddressRepository) Create(ctx context.Context, address *ordering.OrderAddress) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockOrderAddressRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderAddress, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.OrderAddress), args.Error(1)
}

func (m *MockOrderAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestOrderService() (*OrderService, *MockOrderRepository, *MockOrderItemRepository, *MockOrderAddressRepository) {
	orders := new(MockOrderRepository)
	items := new(MockOrderItemRepository)
	addresses := new(MockOrderAddressRepository)
	scope := NewNoOpTransactionScope(orders, items, addresses)
	service := NewOrderService(orders, scope, zap.NewNop())
	return service, orders, items, addresses
}

func validCreateOrderRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Cart: CartData{
			Items: []CartItemData{
				{
					ProductID:     uuid.New(),
					ProductName:   "Standing Desk",
					Quantity:      1,
					UnitPriceHT:   decimal.NewFromFloat(100),
					UnitPriceTTC:  decimal.NewFromFloat(120),
					VATRate:       decimal.NewFromFloat(20),
					TotalPriceHT:  decimal.NewFromFloat(100),
					TotalPriceTTC: decimal.NewFromFloat(120),
				},
				{
					ProductID:     uuid.New(),
					ProductName:   "Desk Lamp",
					Quantity:      2,
					UnitPriceHT:   decimal.NewFromFloat(25),
					UnitPriceTTC:  decimal.NewFromFloat(30),
					VATRate:       decimal.NewFromFloat(20),
					TotalPriceHT:  decimal.NewFromFloat(50),
					TotalPriceTTC: decimal.NewFromFloat(60),
				},
			},
			SubtotalHT: decimal.NewFromFloat(150),
			TotalTTC:   decimal.NewFromFloat(180),
		},
		CustomerSnapshot: valueobject.Snapshot{
			"name":  "Jean Dupont",
			"email": "jean@example.com",
		},
		ShippingAddress: valueobject.Snapshot{
			"street": "1 rue de Rivoli",
			"city":   "Paris",
		},
		UseSameBillingAddress: true,
		PaymentMethod:         "card",
	}
}

func TestCreateOrderFromCart_Success(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
	items.On("Create", mock.Anything, mock.AnythingOfType("*ordering.OrderItem")).Return(nil)
	addresses.On("Create", mock.Anything, mock.AnythingOfType("*ordering.OrderAddress")).Return(nil)

	resp, err := service.CreateOrderFromCart(context.Background(), validCreateOrderRequest())

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.Items, 2)
	assert.Len(t, resp.Addresses, 1)
	assert.Equal(t, "shipping", resp.Addresses[0].Type)
	assert.False(t, resp.Delivered)
	assert.True(t, resp.TotalAmountHT.Equal(decimal.NewFromFloat(150)))
	assert.True(t, resp.TotalAmountTTC.Equal(decimal.NewFromFloat(180)))
	items.AssertNumberOfCalls(t, "Create", 2)
	addresses.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateOrderFromCart_BillingAddressDiffers(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)
	addresses.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateOrderRequest()
	req.UseSameBillingAddress = false
	req.BillingAddress = valueobject.Snapshot{
		"street": "9 avenue des Champs",
		"city":   "Paris",
	}

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, resp.Addresses, 2)
	assert.Equal(t, "shipping", resp.Addresses[0].Type)
	assert.Equal(t, "billing", resp.Addresses[1].Type)
	addresses.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateOrderFromCart_IdenticalBillingAddressSkipped(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)
	addresses.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateOrderRequest()
	req.UseSameBillingAddress = false
	req.BillingAddress = valueobject.Snapshot{
		"street": "1 rue de Rivoli",
		"city":   "Paris",
	}

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, resp.Addresses, 1)
	addresses.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateOrderFromCart_BillingOnlyAddress(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)
	addresses.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateOrderRequest()
	req.ShippingAddress = nil
	req.UseSameBillingAddress = false
	req.BillingAddress = valueobject.Snapshot{
		"street": "9 avenue des Champs",
		"city":   "Paris",
	}

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, resp.Addresses, 1)
	assert.Equal(t, "billing", resp.Addresses[0].Type)
	addresses.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateOrderFromCart_NoAddresses(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateOrderRequest()
	req.ShippingAddress = nil

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Empty(t, resp.Addresses)
	addresses.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_EmptyCart(t *testing.T) {
	service, orders, _, _ := newTestOrderService()

	req := validCreateOrderRequest()
	req.Cart.Items = nil

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.Nil(t, resp)
	assert.True(t, shared.IsValidation(err))
	assert.EqualError(t, err, "cart is empty")
	orders.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_MissingCustomerIdentity(t *testing.T) {
	service, orders, _, _ := newTestOrderService()

	req := validCreateOrderRequest()
	req.CustomerID = nil
	req.CustomerSnapshot = nil

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.Nil(t, resp)
	assert.True(t, shared.IsValidation(err))
	assert.EqualError(t, err, "customer identity required")
	orders.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_ItemFailureWrapped(t *testing.T) {
	service, orders, items, _ := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	resp, err := service.CreateOrderFromCart(context.Background(), validCreateOrderRequest())

	assert.Nil(t, resp)
	assert.True(t, shared.IsCreationError(err))
	var ce *shared.CreationError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, "order", ce.Doc)
	assert.Equal(t, "items", ce.Step)
}

func TestCreateOrderFromCart_InvalidItemWrapped(t *testing.T) {
	service, orders, items, _ := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateOrderRequest()
	req.Cart.Items[1].Quantity = 0

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.Nil(t, resp)
	assert.True(t, shared.IsCreationError(err))
	assert.True(t, shared.IsValidation(err))
	items.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateOrderFromCart_HeaderFailureWrapped(t *testing.T) {
	service, orders, items, _ := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	resp, err := service.CreateOrderFromCart(context.Background(), validCreateOrderRequest())

	assert.Nil(t, resp)
	var ce *shared.CreationError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, "header", ce.Step)
	items.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_RetryReturnsExistingOrder(t *testing.T) {
	service, orders, items, _ := newTestOrderService()

	ref := "pi_3OqX8z2eZvKYlo2C"
	existing, err := ordering.NewOrder(nil, valueobject.Snapshot{"name": "Jean Dupont"},
		valueobject.NewAmountsFromFloat(150, 180), "card", "", &ref)
	assert.NoError(t, err)

	orders.On("FindByPaymentReference", mock.Anything, ref).Return(existing, nil)

	req := validCreateOrderRequest()
	req.PaymentReference = &ref

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	orders.AssertNotCalled(t, "Create")
	items.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_ConcurrentConflictKeepsCanonicalOrder(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	ref := "pi_3OqX8z2eZvKYlo2C"
	canonical, err := ordering.NewOrder(nil, valueobject.Snapshot{"name": "Jean Dupont"},
		valueobject.NewAmountsFromFloat(150, 180), "card", "", &ref)
	assert.NoError(t, err)

	// Not there before the transaction, but present when re-read after the
	// upsert: a concurrent request inserted it in between.
	orders.On("FindByPaymentReference", mock.Anything, ref).
		Return(nil, shared.NewNotFoundError("order not found")).Once()
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	orders.On("FindByPaymentReference", mock.Anything, ref).Return(canonical, nil).Once()

	req := validCreateOrderRequest()
	req.PaymentReference = &ref

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, canonical.ID, resp.ID)
	items.AssertNotCalled(t, "Create")
	addresses.AssertNotCalled(t, "Create")
}

func TestCreateOrderFromCart_BlankPaymentReferenceNotIdempotent(t *testing.T) {
	service, orders, items, addresses := newTestOrderService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)
	addresses.On("Create", mock.Anything, mock.Anything).Return(nil)

	blank := "   "
	req := validCreateOrderRequest()
	req.PaymentReference = &blank

	resp, err := service.CreateOrderFromCart(context.Background(), req)

	assert.NoError(t, err)
	assert.Nil(t, resp.PaymentReference)
	orders.AssertNotCalled(t, "FindByPaymentReference")
}

func TestUpdateDeliveryStatus(t *testing.T) {
	service, orders, _, _ := newTestOrderService()

	order, err := ordering.NewOrder(nil, valueobject.Snapshot{"name": "Jean Dupont"},
		valueobject.NewAmountsFromFloat(150, 180), "card", "", nil)
	assert.NoError(t, err)
	order.Delivered = true

	orders.On("UpdateDeliveryStatus", mock.Anything, order.ID, true).Return(order, nil)

	resp, err := service.UpdateDeliveryStatus(context.Background(), order.ID, true)

	assert.NoError(t, err)
	assert.True(t, resp.Delivered)
}

func TestUpdateDeliveryStatus_NotFound(t *testing.T) {
	service, orders, _, _ := newTestOrderService()

	id := uuid.New()
	orders.On("UpdateDeliveryStatus", mock.Anything, id, true).
		Return(nil, shared.NewNotFoundError("order not found"))

	resp, err := service.UpdateDeliveryStatus(context.Background(), id, true)

	assert.Nil(t, resp)
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteOrder(t *testing.T) {
	service, orders, _, _ := newTestOrderService()

	id := uuid.New()
	orders.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, service.DeleteOrder(context.Background(), id))
	orders.AssertExpectations(t)
}
