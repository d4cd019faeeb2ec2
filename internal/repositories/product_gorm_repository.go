package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lalastore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their category, ordered by ID.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx).Preload("Category"), id)
}

// GetByIDForUpdate retrieves a product and locks its row (SELECT ... FOR UPDATE).
func (r *GORMProductRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GORMProductRepository) first(tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByCategory retrieves the products whose category name matches, ignoring case.
func (r *GORMProductRepository) GetByCategory(ctx context.Context, categoryName string) ([]models.Product, error) {
	db := r.db.WithContext(ctx)
	categoryIDs := db.Model(&models.Category{}).Select("id").Where("LOWER(name) = ?", strings.ToLower(categoryName))

	var products []models.Product
	err := db.Preload("Category").
		Where("category_id IN (?)", categoryIDs).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for category %s: %w", categoryName, err)
	}
	return products, nil
}

// Search matches query against product name and description, ignoring case.
func (r *GORMProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", query, err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// CreateCategory creates a new category in the database.
func (r *GORMProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(translateError(err), ErrDuplicate) {
			return fmt.Errorf("category %s: %w", category.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DecrementStock runs a conditional UPDATE so stock can never drop below zero,
// even without a prior row lock.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint, amount int) error {
	if amount < 1 {
		return fmt.Errorf("invalid stock decrement %d for product %d", amount, id)
	}
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, amount).
		UpdateColumn("stock", gorm.Expr("stock - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product %d: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("product with ID %d: %w", id, ErrInsufficientStock)
}
