package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lalastore/internal/database"
	"lalastore/internal/models"
	"lalastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) repositories.Store {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return repositories.NewGORMStore(db)
}

// forEachStore runs the same behavioural test against both Store implementations.
func forEachStore(t *testing.T, test func(t *testing.T, store repositories.Store)) {
	t.Run("gorm", func(t *testing.T) { test(t, newSQLiteStore(t)) })
	t.Run("memory", func(t *testing.T) { test(t, repositories.NewInMemoryStore()) })
}

func createProduct(t *testing.T, store repositories.Store, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, store.Repositories().Products.Create(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestStore_WithinTransactionRollsBackOnError(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		p := createProduct(t, store, "Shirt", "10.00", 5)
		require.NoError(t, store.Repositories().Carts.AddItem(ctx, 1, p.ID, 2))

		boom := errors.New("boom")
		err := store.WithinTransaction(ctx, func(repos repositories.Repositories) error {
			order := &models.Order{UserID: 1, Total: decimal.RequireFromString("10.00"), Status: models.OrderStatusPending}
			if err := repos.Orders.Create(ctx, order); err != nil {
				return err
			}
			if err := repos.Products.DecrementStock(ctx, p.ID, 1); err != nil {
				return err
			}
			if err := repos.Carts.Clear(ctx, 1); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		repos := store.Repositories()
		got, err := repos.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Stock)

		orders, err := repos.Orders.ListByUser(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, orders)

		lines, err := repos.Carts.GetCartLines(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})
}

func TestStore_WithinTransactionCommits(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		p := createProduct(t, store, "Shirt", "10.00", 5)

		err := store.WithinTransaction(ctx, func(repos repositories.Repositories) error {
			locked, err := repos.Products.GetByIDForUpdate(ctx, p.ID)
			if err != nil {
				return err
			}
			return repos.Products.DecrementStock(ctx, locked.ID, 2)
		})
		require.NoError(t, err)

		got, err := store.Repositories().Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})
}

func TestProductRepository_DecrementStockNeverGoesNegative(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		products := store.Repositories().Products
		p := createProduct(t, store, "Shirt", "10.00", 1)

		assert.ErrorIs(t, products.DecrementStock(ctx, p.ID, 2), repositories.ErrInsufficientStock)
		assert.ErrorIs(t, products.DecrementStock(ctx, 999, 1), repositories.ErrNotFound)
		require.NoError(t, products.DecrementStock(ctx, p.ID, 1))
		assert.ErrorIs(t, products.DecrementStock(ctx, p.ID, 1), repositories.ErrInsufficientStock)

		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
	})
}

func TestProductRepository_LookupsAndSearch(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		products := store.Repositories().Products

		women := &models.Category{Name: "Women"}
		require.NoError(t, products.CreateCategory(ctx, women))
		assert.ErrorIs(t, products.CreateCategory(ctx, &models.Category{Name: "Women"}), repositories.ErrDuplicate)

		dress := &models.Product{CategoryID: &women.ID, Name: "Silk Dress", Description: "Evening wear", Price: decimal.RequireFromString("80.00"), Stock: 2}
		require.NoError(t, products.Create(ctx, dress))
		createProduct(t, store, "Linen Shirt", "25.00", 3)

		_, err := products.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		inCategory, err := products.GetByCategory(ctx, "WOMEN")
		require.NoError(t, err)
		require.Len(t, inCategory, 1)
		assert.Equal(t, "Silk Dress", inCategory[0].Name)
		require.NotNil(t, inCategory[0].Category)
		assert.Equal(t, "Women", inCategory[0].Category.Name)

		found, err := products.Search(ctx, "linen")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Linen Shirt", found[0].Name)

		found, err = products.Search(ctx, "EVENING")
		require.NoError(t, err)
		require.Len(t, found, 1)

		all, err := products.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestCartRepository_UpsertUpdateRemoveClear(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		carts := store.Repositories().Carts
		a := createProduct(t, store, "Shirt", "10.00", 5)
		b := createProduct(t, store, "Dress", "20.00", 5)

		require.NoError(t, carts.AddItem(ctx, 1, a.ID, 1))
		require.NoError(t, carts.AddItem(ctx, 1, a.ID, 2))
		require.NoError(t, carts.AddItem(ctx, 1, b.ID, 1))
		require.NoError(t, carts.AddItem(ctx, 2, a.ID, 1))

		lines, err := carts.GetCartLines(ctx, 1)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, a.ID, lines[0].ProductID)
		assert.Equal(t, 3, lines[0].Quantity)
		require.NotNil(t, lines[0].Product)
		assert.Equal(t, "Shirt", lines[0].Product.Name)

		require.NoError(t, carts.UpdateQuantity(ctx, 1, b.ID, 4))
		assert.ErrorIs(t, carts.UpdateQuantity(ctx, 3, b.ID, 4), repositories.ErrNotFound)

		require.NoError(t, carts.RemoveItem(ctx, 1, a.ID))
		require.NoError(t, carts.RemoveItem(ctx, 1, a.ID))
		lines, err = carts.GetCartLines(ctx, 1)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 4, lines[0].Quantity)

		require.NoError(t, carts.Clear(ctx, 1))
		lines, err = carts.GetCartLines(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, lines)

		other, err := carts.GetCartLines(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}

func TestOrderRepository_ListByUserNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		orders := store.Repositories().Orders
		p := createProduct(t, store, "Shirt", "10.00", 5)

		var ids []uint
		for _, qty := range []int{1, 2} {
			order := &models.Order{UserID: 9, Total: decimal.NewFromInt(int64(10 * qty)), Status: models.OrderStatusPending}
			require.NoError(t, orders.Create(ctx, order))
			require.NoError(t, orders.AddItem(ctx, &models.OrderItem{
				OrderID: order.ID, ProductID: p.ID, Quantity: qty, PriceAtPurchase: p.Price,
			}))
			ids = append(ids, order.ID)
		}
		require.NoError(t, orders.UpdateTotal(ctx, ids[1], decimal.RequireFromString("19.99")))
		assert.ErrorIs(t, orders.UpdateTotal(ctx, 999, decimal.Zero), repositories.ErrNotFound)

		listed, err := orders.ListByUser(ctx, 9)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, ids[1], listed[0].ID)
		assert.Equal(t, ids[0], listed[1].ID)
		assert.True(t, listed[0].Total.Equal(decimal.RequireFromString("19.99")))
		require.Len(t, listed[0].Items, 1)
		assert.Equal(t, "Shirt", listed[0].Items[0].ProductName)
		assert.Equal(t, 2, listed[0].Items[0].Quantity)
		assert.True(t, listed[0].Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("10.00")))

		none, err := orders.ListByUser(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repositories.Store) {
		ctx := context.Background()
		users := store.Repositories().Users

		u := &models.User{Email: "lala@example.com", PasswordHash: "hash", Name: "Lala"}
		require.NoError(t, users.Create(ctx, u))
		assert.ErrorIs(t, users.Create(ctx, &models.User{Email: "lala@example.com", PasswordHash: "x", Name: "Other"}), repositories.ErrDuplicate)

		got, err := users.GetByEmail(ctx, "lala@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = users.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestInMemoryStore_CanceledContext(t *testing.T) {
	store := repositories.NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTransaction(ctx, func(repositories.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}
