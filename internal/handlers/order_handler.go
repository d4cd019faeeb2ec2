package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lalastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service          *services.OrderService
	createMiddleware []fiber.Handler
}

// NewOrderHandler creates a new OrderHandler. createMiddleware runs in front of
// order creation only (e.g. idempotency).
func NewOrderHandler(service *services.OrderService, createMiddleware ...fiber.Handler) *OrderHandler {
	return &OrderHandler{
		service:          service,
		createMiddleware: createMiddleware,
	}
}

// flexInt accepts a JSON number or a numeric string. Fractions are truncated.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = flexInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("invalid integer %s", b)
	}
	*n = flexInt(f)
	return nil
}

// userID maps a missing or non-positive user id to 0.
func (n flexInt) userID() uint {
	if n < 1 {
		return 0
	}
	return uint(n)
}

type orderItemRequest struct {
	ProductID flexInt `json:"product_id"`
	Quantity  flexInt `json:"quantity"`
}

type createOrderRequest struct {
	UserID          flexInt            `json:"user_id"`
	Items           []orderItemRequest `json:"items"`
	ShippingName    string             `json:"shipping_name"`
	ShippingPhone   string             `json:"shipping_phone"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// OrderUserScope scopes idempotency keys on order creation to the user_id in
// the request body.
func OrderUserScope(c *fiber.Ctx) string {
	var req struct {
		UserID flexInt `json:"user_id"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return "user:?"
	}
	return "user:" + strconv.FormatInt(int64(req.UserID), 10)
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	create := append(append([]fiber.Handler{}, h.createMiddleware...), h.HandleCreateOrder)
	orderRoutes.Post("/create", create...)
	orderRoutes.Get("/:userId<int>", h.HandleGetOrders)
}

// HandleCreateOrder places an order from the submitted items. Prices always
// come from the catalog; the client never supplies a total.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity > math.MaxInt32 {
			quantity = math.MaxInt32
		} else if quantity < math.MinInt32 {
			quantity = math.MinInt32
		}
		items = append(items, services.OrderItemInput{ProductID: int64(item.ProductID), Quantity: int(quantity)})
	}
	if req.Items == nil {
		items = nil
	}

	result, err := h.service.PlaceOrder(c.UserContext(), services.PlaceOrderInput{
		UserID: req.UserID.userID(),
		Items:  items,
		Shipping: services.ShippingInfo{
			Name:    req.ShippingName,
			Phone:   req.ShippingPhone,
			Address: req.ShippingAddress,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return sendServiceError(c, err, fiber.StatusBadRequest)
	}

	return sendData(c, fiber.StatusCreated, fiber.Map{
		"order_id": result.OrderID,
		"total":    money(result.Total),
	})
}

// HandleGetOrders lists a user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "userId")
	if !ok {
		return sendError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	orders, err := h.service.ListOrders(c.UserContext(), userID)
	if err != nil {
		return sendServiceError(c, err, fiber.StatusBadRequest)
	}
	return sendData(c, fiber.StatusOK, newOrderViews(orders))
}
