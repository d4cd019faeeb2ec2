package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"lalastore/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	store *InMemoryStore
	mu    locker
}

// withCategory attaches the product's category, mirroring a GORM preload.
func (r *MockProductRepository) withCategory(p models.Product) models.Product {
	if p.CategoryID != nil {
		if c, ok := r.store.state.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func (r *MockProductRepository) filter(keep func(models.Product) bool) []models.Product {
	products := make([]models.Product, 0, len(r.store.state.products))
	for _, p := range r.store.state.products {
		if keep(p) {
			products = append(products, r.withCategory(p))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// GetAll returns all products ordered by ID.
func (r *MockProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(models.Product) bool { return true }), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.store.state.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	product = r.withCategory(product)
	return &product, nil
}

// GetByIDForUpdate behaves like GetByID; transactions already hold the store lock.
func (r *MockProductRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *MockProductRepository) GetByCategory(_ context.Context, categoryName string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(p models.Product) bool {
		if p.CategoryID == nil {
			return false
		}
		c, ok := r.store.state.categories[*p.CategoryID]
		return ok && strings.EqualFold(c.Name, categoryName)
	}), nil
}

func (r *MockProductRepository) Search(_ context.Context, query string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q)
	}), nil
}

// Create adds a new product. A zero ID is assigned from the table sequence.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.store.state
	if product.ID == 0 {
		product.ID = state.nextID("products")
	} else if _, exists := state.products[product.ID]; exists {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrDuplicate)
	} else if product.ID > state.lastID["products"] {
		state.lastID["products"] = product.ID
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	stored := *product
	stored.Category = nil
	state.products[product.ID] = stored
	return nil
}

func (r *MockProductRepository) CreateCategory(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.store.state
	for _, c := range state.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return fmt.Errorf("category %s: %w", category.Name, ErrDuplicate)
		}
	}
	category.ID = state.nextID("categories")
	state.categories[category.ID] = *category
	return nil
}

func (r *MockProductRepository) DecrementStock(_ context.Context, id uint, amount int) error {
	if amount < 1 {
		return fmt.Errorf("invalid stock decrement %d for product %d", amount, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.store.state.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	if product.Stock < amount {
		return fmt.Errorf("product with ID %d: %w", id, ErrInsufficientStock)
	}
	product.Stock -= amount
	r.store.state.products[id] = product
	return nil
}
