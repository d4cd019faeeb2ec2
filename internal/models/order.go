package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status every order is created with.
const OrderStatusPending = "pending"

// Order represents a committed customer order.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Status          string          `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	ShippingName    string          `json:"shipping_name,omitempty" gorm:"type:varchar(100)"`
	ShippingPhone   string          `json:"shipping_phone,omitempty" gorm:"type:varchar(20)"`
	ShippingAddress string          `json:"shipping_address,omitempty" gorm:"type:text"`
	PaymentMethod   string          `json:"payment_method,omitempty" gorm:"type:varchar(50)"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a single line within an order. PriceAtPurchase is captured at
// commit time and is never re-derived from the product's current price.
type OrderItem struct {
	ID              uint            `json:"-" gorm:"primaryKey"`
	OrderID         uint            `json:"-" gorm:"not null;index"`
	ProductID       uint            `json:"product_id" gorm:"not null"`
	Product         *Product        `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	ProductName     string          `json:"product_name" gorm:"-"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" gorm:"type:numeric(12,2);not null"`
}

// LineTotal returns quantity × price-at-purchase.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
