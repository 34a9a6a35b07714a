package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/billing"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// MockCreditNoteRepository is a mock implementation of billing.CreditNoteRepository
type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) Create(ctx context.Context, note *billing.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindAll(ctx context.Context, filter billing.CreditNoteFilter) ([]billing.CreditNote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindByYear(ctx context.Context, year int) ([]billing.CreditNote, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status billing.CreditNoteStatus) (*billing.CreditNote, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCreditNoteItemRepository is a mock implementation of billing.CreditNoteItemRepository
type MockCreditNoteItemRepository struct {
	mock.Mock
}

func (m *MockCreditNoteItemRepository) Create(ctx context.Context, item *billing.CreditNoteItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCreditNoteItemRepository) FindByCreditNoteID(ctx context.Context, creditNoteID uuid.UUID) ([]billing.CreditNoteItem, error) {
	args := m.Called(ctx, creditNoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CreditNoteItem), args.Error(1)
}

func (m *MockCreditNoteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCreditNoteService() (*CreditNoteService, *MockCreditNoteRepository, *MockCreditNoteItemRepository) {
	notes := new(MockCreditNoteRepository)
	items := new(MockCreditNoteItemRepository)
	scope := NewNoOpTransactionScope(notes, items)
	service := NewCreditNoteService(notes, scope, zap.NewNop())
	return service, notes, items
}

func validCreateCreditNoteRequest() CreateCreditNoteRequest {
	return CreateCreditNoteRequest{
		OrderID:        uuid.New(),
		TotalAmountHT:  decimal.NewFromFloat(50),
		TotalAmountTTC: decimal.NewFromFloat(60),
		Reason:         "damaged on arrival",
		Items: []CreditNoteItemData{
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
	}
}

func TestCreateCreditNote_WithItems(t *testing.T) {
	service, notes, items := newTestCreditNoteService()

	notes.On("Create", mock.Anything, mock.AnythingOfType("*billing.CreditNote")).Return(nil)
	items.On("Create", mock.Anything, mock.AnythingOfType("*billing.CreditNoteItem")).Return(nil)

	resp, err := service.CreateCreditNote(context.Background(), validCreateCreditNoteRequest())

	assert.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Len(t, resp.Items, 1)
	assert.False(t, resp.IssueDate.IsZero())
	notes.AssertNumberOfCalls(t, "Create", 1)
	items.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateCreditNote_HeaderOnly(t *testing.T) {
	service, notes, items := newTestCreditNoteService()

	notes.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateCreditNoteRequest()
	req.Items = nil

	resp, err := service.CreateCreditNote(context.Background(), req)

	assert.NoError(t, err)
	assert.Empty(t, resp.Items)
	items.AssertNotCalled(t, "Create")
}

func TestCreateCreditNote_BlankReason(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	req := validCreateCreditNoteRequest()
	req.Reason = "   "

	resp, err := service.CreateCreditNote(context.Background(), req)

	assert.Nil(t, resp)
	assert.True(t, shared.IsValidation(err))
	assert.EqualError(t, err, "reason required")
	notes.AssertNotCalled(t, "Create")
}

func TestCreateCreditNote_ExceedingOrderTotalAllowed(t *testing.T) {
	// Over-refund protection is a deliberate non-feature: a credit note may
	// exceed the order it references, and statistics clamp at zero instead.
	service, notes, items := newTestCreditNoteService()

	notes.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateCreditNoteRequest()
	req.TotalAmountHT = decimal.NewFromFloat(10000)
	req.TotalAmountTTC = decimal.NewFromFloat(12000)

	resp, err := service.CreateCreditNote(context.Background(), req)

	assert.NoError(t, err)
	assert.True(t, resp.TotalAmountTTC.Equal(decimal.NewFromFloat(12000)))
}

func TestCreateCreditNote_ItemFailureWrapped(t *testing.T) {
	service, notes, items := newTestCreditNoteService()

	notes.On("Create", mock.Anything, mock.Anything).Return(nil)
	items.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	resp, err := service.CreateCreditNote(context.Background(), validCreateCreditNoteRequest())

	assert.Nil(t, resp)
	var ce *shared.CreationError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, "credit note", ce.Doc)
	assert.Equal(t, "items", ce.Step)
}

func TestCreateCreditNote_InvalidItemWrapped(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	notes.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCreateCreditNoteRequest()
	req.Items[0].Quantity = -1

	resp, err := service.CreateCreditNote(context.Background(), req)

	assert.Nil(t, resp)
	assert.True(t, shared.IsCreationError(err))
	assert.True(t, shared.IsValidation(err))
}

func newPendingCreditNote(t *testing.T) *billing.CreditNote {
	t.Helper()
	note, err := billing.NewCreditNote(uuid.New(), nil,
		valueobject.NewAmountsFromFloat(50, 60),
		"damaged on arrival", "", "", "", time.Now())
	assert.NoError(t, err)
	return note
}

func TestUpdateCreditNoteStatus_PendingToRefunded(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	note := newPendingCreditNote(t)
	refunded := *note
	refunded.Status = billing.CreditNoteStatusRefunded

	notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)
	notes.On("UpdateStatus", mock.Anything, note.ID, billing.CreditNoteStatusRefunded).Return(&refunded, nil)

	resp, err := service.UpdateCreditNoteStatus(context.Background(), note.ID, "refunded")

	assert.NoError(t, err)
	assert.Equal(t, "refunded", resp.Status)
}

func TestUpdateCreditNoteStatus_UnknownStatusRejected(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	note := newPendingCreditNote(t)
	notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)

	resp, err := service.UpdateCreditNoteStatus(context.Background(), note.ID, "shipped")

	assert.Nil(t, resp)
	assert.True(t, shared.IsValidation(err))
	notes.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateCreditNoteStatus_RefundedIsTerminal(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	note := newPendingCreditNote(t)
	note.Status = billing.CreditNoteStatusRefunded
	notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)

	resp, err := service.UpdateCreditNoteStatus(context.Background(), note.ID, "pending")

	assert.Nil(t, resp)
	assert.Error(t, err)
	notes.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateCreditNoteStatus_NotFound(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	id := uuid.New()
	notes.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("credit note not found"))

	resp, err := service.UpdateCreditNoteStatus(context.Background(), id, "refunded")

	assert.Nil(t, resp)
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteCreditNote(t *testing.T) {
	service, notes, _ := newTestCreditNoteService()

	id := uuid.New()
	notes.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, service.DeleteCreditNote(context.Background(), id))
	notes.AssertExpectations(t)
}
