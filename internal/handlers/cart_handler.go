package handlers

import (
	"lalastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for user carts.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type cartItemRequest struct {
	UserID    uint `json:"user_id"`
	ProductID uint `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/:userId<int>", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Post("/remove", h.HandleRemoveItem)
	cartRoutes.Post("/update_quantity", h.HandleUpdateQuantity)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "userId")
	if !ok {
		return sendError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	lines, err := h.service.GetCart(c.UserContext(), userID)
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, lines)
}

// HandleAddItem adds a product to the cart; quantity defaults to 1.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := h.service.AddItem(c.UserContext(), req.UserID, req.ProductID, quantity); err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendMessage(c, fiber.StatusCreated, "Item added to cart")
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.RemoveItem(c.UserContext(), req.UserID, req.ProductID); err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendMessage(c, fiber.StatusOK, "Item removed from cart")
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.Quantity == nil {
		return sendError(c, fiber.StatusBadRequest, "Missing user_id, product_id, or quantity")
	}
	if err := h.service.UpdateQuantity(c.UserContext(), req.UserID, req.ProductID, *req.Quantity); err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendMessage(c, fiber.StatusOK, "Cart updated")
}
