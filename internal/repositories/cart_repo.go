package repositories

import (
	"context"

	"lalastore/internal/models"
)

// CartRepository defines the interface for per-user cart operations.
type CartRepository interface {
	// GetCartLines returns the user's cart items with their products loaded.
	GetCartLines(ctx context.Context, userID uint) ([]models.CartItem, error)
	// AddItem inserts a line or increments the quantity of an existing one.
	AddItem(ctx context.Context, userID, productID uint, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}
