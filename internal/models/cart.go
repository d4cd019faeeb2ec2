package models

import "encoding/json"

// CartItem is one line of a user's cart. A user holds at most one line per product.
type CartItem struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint     `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int      `json:"quantity" gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
	Product   *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CartLine is the read model returned to clients: a cart item joined with its product.
type CartLine struct {
	ID        uint        `json:"id"`
	ProductID uint        `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	ImageURL  string      `json:"image_url"`
}
