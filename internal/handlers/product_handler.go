package handlers

import (
	"errors"

	"lalastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/category/:categoryName", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id<int>", h.HandleGetProductByID)
}

func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, newProductViews(products))
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return sendError(c, fiber.StatusNotFound, "Product not found")
	}
	product, err := h.service.GetProductByID(c.UserContext(), uint(id))
	if err != nil {
		var notFound *services.ProductNotFoundError
		if errors.As(err, &notFound) {
			return sendError(c, fiber.StatusNotFound, "Product not found")
		}
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, newProductView(*product))
}

func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByCategory(c.UserContext(), c.Params("categoryName"))
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, newProductViews(products))
}

func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, newProductViews(products))
}
