// Package events defines the order events emitted after a checkout commits
// and a fan-out publisher over the configured brokers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedRoutingKey is the routing key and default topic for OrderCreated.
const OrderCreatedRoutingKey = "order.created"

// OrderCreatedItem is one committed order line.
type OrderCreatedItem struct {
	ProductID       uint            `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderCreated is published once an order transaction has committed.
type OrderCreated struct {
	EventID   string             `json:"event_id"`
	OrderID   uint               `json:"order_id"`
	UserID    uint               `json:"user_id"`
	Total     decimal.Decimal    `json:"total"`
	Items     []OrderCreatedItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewOrderCreated builds an event with a fresh event ID.
func NewOrderCreated(orderID, userID uint, total decimal.Decimal, items []OrderCreatedItem) OrderCreated {
	return OrderCreated{
		EventID:   uuid.New().String(),
		OrderID:   orderID,
		UserID:    userID,
		Total:     total,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}
}

// Publisher delivers order events to a broker.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreated) error
}

// Publishers fans an event out to every publisher and joins their errors.
type Publishers []Publisher

func (ps Publishers) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	var errs []error
	for _, p := range ps {
		if err := p.PublishOrderCreated(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
