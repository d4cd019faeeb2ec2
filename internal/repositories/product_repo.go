package repositories

import (
	"context"

	"lalastore/internal/models"
)

// ProductRepository defines the interface for product and category data operations.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetByIDForUpdate reads the product and holds a row lock on it until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error)
	GetByCategory(ctx context.Context, categoryName string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	CreateCategory(ctx context.Context, category *models.Category) error
	// DecrementStock subtracts amount from the product's stock. It fails with
	// ErrInsufficientStock instead of letting stock go negative.
	DecrementStock(ctx context.Context, id uint, amount int) error
}
