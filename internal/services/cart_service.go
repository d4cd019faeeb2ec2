package services

import (
	"context"
	"encoding/json"
	"errors"

	"lalastore/internal/models"
	"lalastore/internal/repositories"
)

// CartService handles per-user cart operations.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's cart lines joined with product details.
func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	items, err := s.carts.GetCartLines(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "get cart", Err: err}
	}
	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		line := models.CartLine{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Price = json.Number(item.Product.Price.StringFixed(2))
			line.ImageURL = item.Product.ImageURL
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AddItem adds quantity of a product to the cart. Quantities below 1 count as 1.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return &ValidationError{Message: "Missing user_id or product_id"}
	}
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &ProductNotFoundError{ProductID: int64(productID)}
		}
		return &PersistenceError{Op: "add to cart", Err: err}
	}
	if err := s.carts.AddItem(ctx, userID, productID, quantity); err != nil {
		return &PersistenceError{Op: "add to cart", Err: err}
	}
	return nil
}

// RemoveItem removes a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return &ValidationError{Message: "Missing user_id or product_id"}
	}
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		return &PersistenceError{Op: "remove from cart", Err: err}
	}
	return nil
}

// UpdateQuantity sets the quantity of a cart line. The quantity must be at least 1.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return &ValidationError{Message: "Missing user_id, product_id, or quantity"}
	}
	if quantity < 1 {
		return &ValidationError{Message: "Quantity must be at least 1"}
	}
	err := s.carts.UpdateQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return &PersistenceError{Op: "update cart", Err: err}
	}
	return nil
}
