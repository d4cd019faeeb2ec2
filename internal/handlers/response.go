package handlers

import (
	"errors"
	"log"

	"lalastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

func sendData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func sendMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message})
}

func sendError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

// sendServiceError maps a service error onto a status and error envelope.
// productNotFound is the status used for an unknown product, which differs
// between catalog reads (404) and checkout (400).
func sendServiceError(c *fiber.Ctx, err error, productNotFound int) error {
	var (
		validationErr  *services.ValidationError
		notFoundErr    *services.ProductNotFoundError
		stockErr       *services.InsufficientStockError
		persistenceErr *services.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		return sendError(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		return sendError(c, productNotFound, notFoundErr.Error())
	case errors.As(err, &stockErr):
		return sendError(c, fiber.StatusBadRequest, stockErr.Error())
	case errors.Is(err, services.ErrCartItemNotFound):
		return sendError(c, fiber.StatusNotFound, "Cart item not found")
	case errors.Is(err, services.ErrEmailTaken):
		return sendError(c, fiber.StatusConflict, "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		return sendError(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.As(err, &persistenceErr):
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return sendError(c, fiber.StatusInternalServerError, "Failed to "+persistenceErr.Op)
	default:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return sendError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// userIDParam reads a positive integer user ID from the named route parameter.
func userIDParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body for %s: %v", c.Path(), err)
	return sendError(c, fiber.StatusBadRequest, "Invalid request body")
}
