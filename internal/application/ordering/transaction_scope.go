package ordering

import (
	"context"

	"github.com/oms/backend/internal/domain/ordering"
)

// TransactionScope provides transactional access to the ordering repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically. One orchestrator invocation owns exactly one scope
// execution; the scope is never shared across concurrent requests.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ordering repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() ordering.OrderRepository
	// OrderItems returns the line item repository scoped to the current transaction
	OrderItems() ordering.OrderItemRepository
	// OrderAddresses returns the address repository scoped to the current transaction
	OrderAddresses() ordering.OrderAddressRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	orderRepo   ordering.OrderRepository
	itemRepo    ordering.OrderItemRepository
	addressRepo ordering.OrderAddressRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo ordering.OrderRepository,
	itemRepo ordering.OrderItemRepository,
	addressRepo ordering.OrderAddressRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		addressRepo: addressRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() ordering.OrderRepository {
	return s.orderRepo
}

// OrderItems returns the line item repository
func (s *NoOpTransactionScope) OrderItems() ordering.OrderItemRepository {
	return s.itemRepo
}

// OrderAddresses returns the address repository
func (s *NoOpTransactionScope) OrderAddresses() ordering.OrderAddressRepository {
	return s.addressRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
