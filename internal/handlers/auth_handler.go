package handlers

import (
	"lalastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	user, err := h.authService.RegisterUser(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusCreated, fiber.Map{"user": newUserView(user)})
}

// HandleLogin checks credentials. No token is issued; the client keeps the returned user.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return sendServiceError(c, err, fiber.StatusNotFound)
	}
	return sendData(c, fiber.StatusOK, fiber.Map{"user": newUserView(user)})
}
