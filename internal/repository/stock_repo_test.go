package repository

import (
	"context"
	"testing"

	"inventaris/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestStockLedger_DecreaseIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewStockLedger(db)

	// The WHERE clause carries the sufficiency check; one statement, no
	// read-then-write window.
	mock.ExpectExec(`UPDATE "items" SET "stock_quantity"=stock_quantity - \$1 WHERE id = \$2 AND stock_quantity >= \$3`).
		WithArgs(4, 1, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ledger.Decrease(context.Background(), 1, 4)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLedger_DecreaseInsufficientStock(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewStockLedger(db)

	// Guard rejects: zero rows affected, item exists.
	mock.ExpectExec(`UPDATE "items" SET "stock_quantity"=stock_quantity - \$1 WHERE id = \$2 AND stock_quantity >= \$3`).
		WithArgs(10, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := ledger.Decrease(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLedger_DecreaseMissingItem(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewStockLedger(db)

	mock.ExpectExec(`UPDATE "items" SET "stock_quantity"=stock_quantity - \$1 WHERE id = \$2 AND stock_quantity >= \$3`).
		WithArgs(1, 99, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := ledger.Decrease(context.Background(), 99, 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLedger_IncreaseRejectsNonPositive(t *testing.T) {
	db, _ := newMockDB(t)
	ledger := NewStockLedger(db)

	assert.ErrorIs(t, ledger.Increase(context.Background(), 1, 0), apperror.ErrValidation)
	assert.ErrorIs(t, ledger.Increase(context.Background(), 1, -5), apperror.ErrValidation)
	assert.ErrorIs(t, ledger.Decrease(context.Background(), 1, 0), apperror.ErrValidation)
	assert.ErrorIs(t, ledger.DecreaseUnchecked(context.Background(), 1, -1), apperror.ErrValidation)
}

func TestStockLedger_DecreaseUncheckedSkipsGuard(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewStockLedger(db)

	// No sufficiency predicate; lenient receipt reversal may overdraw.
	mock.ExpectExec(`UPDATE "items" SET "stock_quantity"=stock_quantity - \$1 WHERE id = \$2`).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ledger.DecreaseUnchecked(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
