package repositories

import (
	"context"
	"fmt"
	"sort"

	"lalastore/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	store *InMemoryStore
	mu    locker
}

func (r *MockCartRepository) find(userID, productID uint) (models.CartItem, bool) {
	for _, item := range r.store.state.cart {
		if item.UserID == userID && item.ProductID == productID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

func (r *MockCartRepository) GetCartLines(_ context.Context, userID uint) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []models.CartItem{}
	for _, item := range r.store.state.cart {
		if item.UserID != userID {
			continue
		}
		if p, ok := r.store.state.products[item.ProductID]; ok {
			item.Product = &p
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MockCartRepository) AddItem(_ context.Context, userID, productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.find(userID, productID); ok {
		item.Quantity += quantity
		r.store.state.cart[item.ID] = item
		return nil
	}
	id := r.store.state.nextID("cart_items")
	r.store.state.cart[id] = models.CartItem{ID: id, UserID: userID, ProductID: productID, Quantity: quantity}
	return nil
}

func (r *MockCartRepository) UpdateQuantity(_ context.Context, userID, productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.find(userID, productID)
	if !ok {
		return fmt.Errorf("cart item for product %d: %w", productID, ErrNotFound)
	}
	item.Quantity = quantity
	r.store.state.cart[item.ID] = item
	return nil
}

func (r *MockCartRepository) RemoveItem(_ context.Context, userID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.find(userID, productID); ok {
		delete(r.store.state.cart, item.ID)
	}
	return nil
}

func (r *MockCartRepository) Clear(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.store.state.cart {
		if item.UserID == userID {
			delete(r.store.state.cart, id)
		}
	}
	return nil
}
