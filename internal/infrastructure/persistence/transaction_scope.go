package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/oms/backend/internal/application/billing"
	appordering "github.com/oms/backend/internal/application/ordering"
	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/ordering"
)

// GormOrderTransactionScope implements the ordering transaction scope using
// GORM's transaction support. Every repository handed to the callback is bound
// to the same *gorm.DB transaction.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderTransactionalRepositories{tx: tx})
	})
}

// gormOrderTransactionalRepositories provides tx-bound ordering repositories
type gormOrderTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderTransactionalRepositories) Orders() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderTransactionalRepositories) OrderItems() ordering.OrderItemRepository {
	return NewGormOrderItemRepository(r.tx)
}

func (r *gormOrderTransactionalRepositories) OrderAddresses() ordering.OrderAddressRepository {
	return NewGormOrderAddressRepository(r.tx)
}

// GormBillingTransactionScope implements the billing transaction scope using
// GORM's transaction support.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingTransactionalRepositories{tx: tx})
	})
}

// gormBillingTransactionalRepositories provides tx-bound billing repositories
type gormBillingTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormBillingTransactionalRepositories) CreditNotes() billing.CreditNoteRepository {
	return NewGormCreditNoteRepository(r.tx)
}

func (r *gormBillingTransactionalRepositories) CreditNoteItems() billing.CreditNoteItemRepository {
	return NewGormCreditNoteItemRepository(r.tx)
}

// Ensure the scopes implement the application interfaces
var _ appordering.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
