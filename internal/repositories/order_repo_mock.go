package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lalastore/internal/models"

	"github.com/shopspring/decimal"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	store *InMemoryStore
	mu    locker
}

func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.store.state.nextID("orders")
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	stored := *order
	stored.Items = nil
	r.store.state.orders[order.ID] = stored
	return nil
}

func (r *MockOrderRepository) AddItem(_ context.Context, item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store.state.orders[item.OrderID]; !ok {
		return fmt.Errorf("order with ID %d: %w", item.OrderID, ErrNotFound)
	}
	item.ID = r.store.state.nextID("order_items")
	stored := *item
	stored.Product = nil
	r.store.state.orderItems[item.ID] = stored
	return nil
}

func (r *MockOrderRepository) UpdateTotal(_ context.Context, orderID uint, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.store.state.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
	}
	order.Total = total
	r.store.state.orders[orderID] = order
	return nil
}

func (r *MockOrderRepository) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range r.store.state.orders {
		if o.UserID == userID {
			o.Items = []models.OrderItem{}
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	index := make(map[uint]int, len(orders))
	for i, o := range orders {
		index[o.ID] = i
	}
	items := make([]models.OrderItem, 0, len(r.store.state.orderItems))
	for _, item := range r.store.state.orderItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	for _, item := range items {
		i, ok := index[item.OrderID]
		if !ok {
			continue
		}
		if p, ok := r.store.state.products[item.ProductID]; ok {
			item.ProductName = p.Name
		}
		orders[i].Items = append(orders[i].Items, item)
	}
	return orders, nil
}
