package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"lalastore/internal/models"
	"lalastore/internal/repositories"
	"lalastore/pkg/events"

	"github.com/shopspring/decimal"
)

const publishTimeout = 5 * time.Second

// OrderItemInput is one requested (product, quantity) pair. ProductID is
// taken as sent; IDs below 1 never match a product.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// ShippingInfo is stored verbatim on the order.
type ShippingInfo struct {
	Name    string
	Phone   string
	Address string
}

// PlaceOrderInput is a checkout request.
type PlaceOrderInput struct {
	UserID        uint
	Items         []OrderItemInput
	Shipping      ShippingInfo
	PaymentMethod string
}

// PlaceOrderResult is returned for a committed order. Total equals the sum of
// the committed order lines.
type PlaceOrderResult struct {
	OrderID uint
	Total   decimal.Decimal
}

// OrderRecorder receives checkout outcomes, e.g. for metrics.
type OrderRecorder interface {
	OrderPlaced()
	OrderFailed(reason string)
}

type nopRecorder struct{}

func (nopRecorder) OrderPlaced()       {}
func (nopRecorder) OrderFailed(string) {}

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher events.Publisher
	recorder  OrderRecorder
}

// NewOrderService creates a new OrderService. publisher and recorder may be nil.
func NewOrderService(store repositories.Store, publisher events.Publisher, recorder OrderRecorder) *OrderService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &OrderService{
		store:     store,
		publisher: publisher,
		recorder:  recorder,
	}
}

// PlaceOrder validates stock, prices the order from current product prices,
// writes the order and its lines, decrements stock and clears the user's cart,
// all in one transaction. On any error nothing is persisted.
//
// Items with quantity < 1 are skipped. A request whose items are all skipped
// still commits an order with no lines and a zero total, and clears the cart.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if in.UserID == 0 || in.Items == nil {
		s.recorder.OrderFailed("validation")
		return nil, &ValidationError{Message: "Missing user_id or items"}
	}
	if len(in.Items) == 0 {
		s.recorder.OrderFailed("validation")
		return nil, &ValidationError{Message: "No items in order"}
	}

	items := make([]OrderItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity >= 1 {
			items = append(items, item)
		}
	}

	var (
		result *PlaceOrderResult
		lines  []models.OrderItem
	)
	err := s.store.WithinTransaction(ctx, func(repos repositories.Repositories) error {
		lines = lines[:0]

		locked, err := lockProducts(ctx, repos.Products, items)
		if err != nil {
			return err
		}

		// Validate and price in input order so the first offending item is reported.
		requested := make(map[int64]int, len(locked))
		total := decimal.Zero
		for _, item := range items {
			product, ok := locked[item.ProductID]
			if !ok {
				return &ProductNotFoundError{ProductID: item.ProductID}
			}
			requested[item.ProductID] += item.Quantity
			if product.Stock < requested[item.ProductID] {
				return &InsufficientStockError{ProductID: item.ProductID}
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order := &models.Order{
			UserID:          in.UserID,
			Total:           total,
			Status:          models.OrderStatusPending,
			ShippingName:    in.Shipping.Name,
			ShippingPhone:   in.Shipping.Phone,
			ShippingAddress: in.Shipping.Address,
			PaymentMethod:   in.PaymentMethod,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}

		committed := decimal.Zero
		for _, item := range items {
			// Snapshot the price as it stands when the line is written.
			product, err := repos.Products.GetByID(ctx, uint(item.ProductID))
			if err != nil {
				return mapStockError(err, item.ProductID)
			}
			line := &models.OrderItem{
				OrderID:         order.ID,
				ProductID:       uint(item.ProductID),
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			}
			if err := repos.Orders.AddItem(ctx, line); err != nil {
				return err
			}
			if err := repos.Products.DecrementStock(ctx, uint(item.ProductID), item.Quantity); err != nil {
				return mapStockError(err, item.ProductID)
			}
			committed = committed.Add(line.LineTotal())
			lines = append(lines, *line)
		}

		if !committed.Equal(total) {
			log.Printf("Order %d: price changed during checkout, total %s -> %s", order.ID, total, committed)
			if err := repos.Orders.UpdateTotal(ctx, order.ID, committed); err != nil {
				return err
			}
			total = committed
		}

		if err := repos.Carts.Clear(ctx, in.UserID); err != nil {
			return err
		}

		result = &PlaceOrderResult{OrderID: order.ID, Total: total}
		return nil
	})
	if err != nil {
		s.recorder.OrderFailed(failureReason(err))
		if isDomainError(err) {
			return nil, err
		}
		log.Printf("Error placing order for user %d: %v", in.UserID, err)
		return nil, &PersistenceError{Op: "place order", Err: err}
	}

	s.recorder.OrderPlaced()
	s.publishOrderCreated(ctx, in.UserID, result, lines)
	return result, nil
}

// lockProducts row-locks every distinct product in ascending ID order, so two
// checkouts touching the same products always acquire locks in the same order.
// Missing products, including IDs below 1, are left out of the result.
func lockProducts(ctx context.Context, products repositories.ProductRepository, items []OrderItemInput) (map[int64]*models.Product, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.ProductID < 1 {
			continue
		}
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[int64]*models.Product, len(ids))
	for _, id := range ids {
		product, err := products.GetByIDForUpdate(ctx, uint(id))
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		locked[id] = product
	}
	return locked, nil
}

func mapStockError(err error, productID int64) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return &ProductNotFoundError{ProductID: productID}
	case errors.Is(err, repositories.ErrInsufficientStock):
		return &InsufficientStockError{ProductID: productID}
	default:
		return err
	}
}

func failureReason(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *ProductNotFoundError
		stockErr      *InsufficientStockError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &notFoundErr):
		return "product_not_found"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	default:
		return "persistence"
	}
}

// publishOrderCreated announces a committed order. Failures are logged only;
// the order is already durable.
func (s *OrderService) publishOrderCreated(ctx context.Context, userID uint, result *PlaceOrderResult, lines []models.OrderItem) {
	if s.publisher == nil {
		return
	}
	items := make([]events.OrderCreatedItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, events.OrderCreatedItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}
	evt := events.NewOrderCreated(result.OrderID, userID, result.Total, items)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderCreated(pubCtx, evt); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %d: %v", result.OrderID, err)
		return
	}
	log.Printf("Published order created event for order %d", result.OrderID)
}

// ListOrders returns the user's orders newest first, with their lines.
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.store.Repositories().Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}
