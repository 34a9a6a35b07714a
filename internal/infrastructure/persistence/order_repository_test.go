package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/ordering"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/shared/valueobject"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOrderRepository(gormDB), mock, mockDB
}

func newStoredOrder(t *testing.T) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(nil, valueobject.Snapshot{"name": "Jean Dupont"},
		valueobject.NewAmountsFromFloat(100, 120), "card", "", nil)
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_Create(t *testing.T) {
	t.Run("plain insert without payment reference", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := newStoredOrder(t)

		mock.ExpectExec(`INSERT INTO "orders"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upserts on payment reference conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		ref := "pi_3OqX8z2eZvKYlo2C"
		order, err := ordering.NewOrder(nil, valueobject.Snapshot{"name": "Jean Dupont"},
			valueobject.NewAmountsFromFloat(100, 120), "card", "", &ref)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "orders" .* ON CONFLICT \("payment_reference"\) DO UPDATE SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order with children", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()
		mock.MatchExpectationsInOrder(false)

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount_ht", "total_amount_ttc", "payment_method", "delivered"}).
				AddRow(orderID, decimal.NewFromFloat(100), decimal.NewFromFloat(120), "card", false))

		mock.ExpectQuery(`SELECT \* FROM "order_addresses" WHERE "order_addresses"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "type"}))

		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1 ORDER BY created_at ASC`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_name", "quantity"}).
				AddRow(uuid.New(), orderID, "Standing Desk", 1))

		order, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, orderID, order.ID)
		assert.Len(t, order.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByPaymentReference(t *testing.T) {
	t.Run("returns not found when no order holds the reference", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE payment_reference = \$1 .* LIMIT .*`).
			WithArgs("pi_missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByPaymentReference(context.Background(), "pi_missing")

		assert.Nil(t, order)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByYear(t *testing.T) {
	t.Run("queries the half-open year interval", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		start, end := yearInterval(2025)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE created_at >= \$1 AND created_at < \$2 ORDER BY created_at ASC`).
			WithArgs(start, end).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

		orders, err := repo.FindByYear(context.Background(), 2025)

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_UpdateDeliveryStatus(t *testing.T) {
	t.Run("returns not found when no row is updated", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		order, err := repo.UpdateDeliveryStatus(context.Background(), orderID, true)

		assert.Nil(t, order)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Delete(t *testing.T) {
	t.Run("deletes children and header in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "order_addresses" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), orderID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the header does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "order_addresses" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), orderID)

		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
