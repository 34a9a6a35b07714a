package billing

import (
	"context"

	"github.com/oms/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to the billing repositories.
// Repository operations issued through the scope commit or roll back as one
// unit; a credit note header never outlives its items on failure.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction.
type TransactionalRepositories interface {
	// CreditNotes returns the credit note repository scoped to the current transaction
	CreditNotes() billing.CreditNoteRepository
	// CreditNoteItems returns the line item repository scoped to the current transaction
	CreditNoteItems() billing.CreditNoteItemRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	noteRepo billing.CreditNoteRepository
	itemRepo billing.CreditNoteItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	noteRepo billing.CreditNoteRepository,
	itemRepo billing.CreditNoteItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{noteRepo: noteRepo, itemRepo: itemRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CreditNotes returns the credit note repository
func (s *NoOpTransactionScope) CreditNotes() billing.CreditNoteRepository {
	return s.noteRepo
}

// CreditNoteItems returns the line item repository
func (s *NoOpTransactionScope) CreditNoteItems() billing.CreditNoteItemRepository {
	return s.itemRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
