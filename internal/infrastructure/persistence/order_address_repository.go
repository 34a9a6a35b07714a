package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
)

// GormOrderAddressRepository implements ordering.OrderAddressRepository using GORM
type GormOrderAddressRepository struct {
	db *gorm.DB
}

// NewGormOrderAddressRepository creates a new GormOrderAddressRepository
func NewGormOrderAddressRepository(db *gorm.DB) *GormOrderAddressRepository {
	return &GormOrderAddressRepository{db: db}
}

// Create inserts an address snapshot
func (r *GormOrderAddressRepository) Create(ctx context.Context, address *ordering.OrderAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// FindByOrderID returns the order's address snapshots
func (r *GormOrderAddressRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderAddress, error) {
	var addresses []ordering.OrderAddress
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Delete removes an address snapshot
func (r *GormOrderAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.OrderAddress{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("order address not found")
	}
	return nil
}

// Ensure GormOrderAddressRepository implements OrderAddressRepository
var _ ordering.OrderAddressRepository = (*GormOrderAddressRepository)(nil)
