package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts an order header. When the order carries a payment reference
// the insert is an upsert keyed by the unique payment_reference index: a
// conflicting insert degrades to a no-op touch of updated_at, so a retried
// payment webhook can never produce a second header row. The database
// constraint is the sole concurrency control for this race.
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	tx := r.db.WithContext(ctx).Omit(clause.Associations)
	if order.HasPaymentReference() {
		tx = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_reference"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": time.Now()}),
		})
	}
	return tx.Create(order).Error
}

// FindByID finds an order by its ID, preloading items and addresses
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Addresses").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindByPaymentReference finds the order holding the given idempotency key
func (r *GormOrderRepository) FindByPaymentReference(ctx context.Context, reference string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Addresses").
		First(&order, "payment_reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter ordering.OrderFilter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyDateFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}),
		filter.CustomerID, filter.StartDate, filter.EndDate, filter.Year,
	)
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByYear finds orders created within the calendar year, oldest first.
// The interval is half-open [Jan 1, next Jan 1) anchored to UTC.
func (r *GormOrderRepository) FindByYear(ctx context.Context, year int) ([]ordering.Order, error) {
	start, end := yearInterval(year)
	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateDeliveryStatus toggles the delivered flag and returns the fresh order
func (r *GormOrderRepository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, delivered bool) (*ordering.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivered":  delivered,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("order not found")
	}
	return r.FindByID(ctx, id)
}

// Delete removes an order and cascades to its items and addresses
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&ordering.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&ordering.OrderAddress{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&ordering.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("order not found")
		}
		return nil
	})
}

// applyDateFilter narrows a query by customer and creation-time bounds.
// Year expands to the half-open UTC interval and composes with explicit bounds.
func applyDateFilter(query *gorm.DB, customerID *uuid.UUID, startDate, endDate *time.Time, year *int) *gorm.DB {
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if year != nil {
		start, end := yearInterval(*year)
		query = query.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}
	return query
}

// yearInterval returns the half-open UTC interval covering a calendar year
func yearInterval(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
