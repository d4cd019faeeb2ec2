package repositories

import (
	"context"

	"lalastore/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	// Create inserts the order row only; lines are written with AddItem.
	Create(ctx context.Context, order *models.Order) error
	AddItem(ctx context.Context, item *models.OrderItem) error
	UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error
	// ListByUser returns the user's orders newest first, each with its lines
	// and their product names.
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
}
