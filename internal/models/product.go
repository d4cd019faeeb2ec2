package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog (e.g. "Men", "Women").
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
}

// Product represents a product in the store.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  *uint           `json:"category_id"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(500)"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:chk_products_stock,stock >= 0" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at"`
}
