package handlers

import (
	"encoding/json"
	"time"

	"lalastore/internal/models"

	"github.com/shopspring/decimal"
)

// money renders an amount as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type productView struct {
	ID           uint        `json:"id"`
	CategoryID   *uint       `json:"category_id"`
	CategoryName string      `json:"category_name,omitempty"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        json.Number `json:"price"`
	ImageURL     string      `json:"image_url"`
	Stock        int         `json:"stock"`
	CreatedAt    time.Time   `json:"created_at"`
}

func newProductView(p models.Product) productView {
	v := productView{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		v.CategoryName = p.Category.Name
	}
	return v
}

func newProductViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

type orderLineView struct {
	ProductID       uint        `json:"product_id"`
	ProductName     string      `json:"product_name"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase json.Number `json:"price_at_purchase"`
}

type orderView struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"user_id"`
	Total           json.Number     `json:"total"`
	Status          string          `json:"status"`
	ShippingName    string          `json:"shipping_name,omitempty"`
	ShippingPhone   string          `json:"shipping_phone,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderLineView `json:"items"`
}

func newOrderViews(orders []models.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		lines := make([]orderLineView, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, orderLineView{
				ProductID:       item.ProductID,
				ProductName:     item.ProductName,
				Quantity:        item.Quantity,
				PriceAtPurchase: money(item.PriceAtPurchase),
			})
		}
		views = append(views, orderView{
			ID:              o.ID,
			UserID:          o.UserID,
			Total:           money(o.Total),
			Status:          o.Status,
			ShippingName:    o.ShippingName,
			ShippingPhone:   o.ShippingPhone,
			ShippingAddress: o.ShippingAddress,
			PaymentMethod:   o.PaymentMethod,
			CreatedAt:       o.CreatedAt,
			Items:           lines,
		})
	}
	return views
}

type userView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
