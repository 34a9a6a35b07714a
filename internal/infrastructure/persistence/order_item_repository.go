package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
)

// GormOrderItemRepository implements ordering.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// Create inserts a line item
func (r *GormOrderItemRepository) Create(ctx context.Context, item *ordering.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByOrderID returns the order's items in creation order for stable display
func (r *GormOrderItemRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderItem, error) {
	var items []ordering.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a single line item.
// Deleting an item does not re-sync the parent order's cached totals; the
// reconciliation aggregator recomputes from the remaining items on read.
func (r *GormOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.OrderItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("order item not found")
	}
	return nil
}

// Ensure GormOrderItemRepository implements OrderItemRepository
var _ ordering.OrderItemRepository = (*GormOrderItemRepository)(nil)
