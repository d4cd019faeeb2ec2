package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockPostgresStore(t *testing.T) (*GORMStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return NewGORMStore(db), mock
}

var productColumns = []string{"id", "category_id", "name", "description", "price", "image_url", "stock", "created_at"}

func TestGORMStore_LocksProductRowForUpdate(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow(1, nil, "Shirt", "", "10.00", "", 5, time.Now()))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.WithinTransaction(context.Background(), func(repos Repositories) error {
		p, err := repos.Products.GetByIDForUpdate(context.Background(), 1)
		if err != nil {
			return err
		}
		assert.Equal(t, "10", p.Price.String())
		assert.Equal(t, 5, p.Stock)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGORMProductRepository_DecrementStockIsConditional(t *testing.T) {
	store, mock := newMockPostgresStore(t)
	products := store.Repositories().Products

	mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1 WHERE .*stock >= \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := products.DecrementStock(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGORMStore_SerializationFailureIsRetryable(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	mock.ExpectRollback()

	err := store.WithinTransaction(context.Background(), func(repos Repositories) error {
		_, err := repos.Products.GetByIDForUpdate(context.Background(), 1)
		return err
	})

	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
