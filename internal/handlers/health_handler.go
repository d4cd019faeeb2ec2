package handlers

import (
	"context"
	"log"
	"time"

	"lalastore/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	store repositories.Store
}

func NewHealthHandler(store repositories.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":   false,
			"db":   "disconnected",
			"time": time.Now().Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{
		"ok":   true,
		"db":   "connected",
		"time": time.Now().Format(time.RFC3339),
	})
}
