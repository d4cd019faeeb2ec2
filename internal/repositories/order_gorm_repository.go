package repositories

import (
	"context"
	"fmt"

	"lalastore/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add item for product %d to order %d: %w", item.ProductID, item.OrderID, err)
	}
	return nil
}

func (r *GORMOrderRepository) UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("total", total)
	if res.Error != nil {
		return fmt.Errorf("failed to update total of order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	for i := range orders {
		for j := range orders[i].Items {
			if p := orders[i].Items[j].Product; p != nil {
				orders[i].Items[j].ProductName = p.Name
			}
		}
	}
	return orders, nil
}
