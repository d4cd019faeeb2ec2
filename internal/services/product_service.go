package services

import (
	"context"
	"errors"

	"lalastore/internal/models"
	"lalastore/internal/repositories"
)

// ProductService handles read access to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "get products", Err: err}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &ProductNotFoundError{ProductID: int64(id)}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get product", Err: err}
	}
	return product, nil
}

// GetProductsByCategory retrieves products by category name, ignoring case.
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryName string) ([]models.Product, error) {
	products, err := s.repo.GetByCategory(ctx, categoryName)
	if err != nil {
		return nil, &PersistenceError{Op: "get products by category", Err: err}
	}
	return products, nil
}

// SearchProducts matches query against names and descriptions. An empty
// query matches every product.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "search products", Err: err}
	}
	return products, nil
}
