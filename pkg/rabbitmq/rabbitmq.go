package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"lalastore/pkg/events"

	amqp "github.com/streadway/amqp"
)

// OrderEventsQueue receives every order.* event published to the exchange.
const OrderEventsQueue = "order_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ, declares the durable topic exchange and binds
// the order events queue to it.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected, exchange %s and queue %s declared", cfg.Exchange, OrderEventsQueue)

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	if _, err := ch.QueueDeclare(OrderEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}
	if err := ch.QueueBind(OrderEventsQueue, "order.*", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", OrderEventsQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderCreated publishes a persistent order.created message to the exchange.
func (c *Client) PublishOrderCreated(ctx context.Context, evt events.OrderCreated) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal order event to JSON: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	err = c.channel.Publish(
		c.exchange,
		events.OrderCreatedRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    evt.EventID,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// ConsumeOrderEvents delivers messages from the order events queue to
// messageHandler in a background goroutine. Messages are acked on success and
// requeued on error; the goroutine ends when the channel closes.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		OrderEventsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				// A message that cannot be decoded will never succeed; drop it.
				requeue := !errors.Is(err, ErrMalformedMessage)
				if nackErr := msg.Nack(false, requeue); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

// ErrMalformedMessage is returned for messages whose body is not a valid event.
var ErrMalformedMessage = errors.New("malformed order event")

// DecodeOrderCreated parses an order.created message body.
func DecodeOrderCreated(msg amqp.Delivery) (events.OrderCreated, error) {
	var evt events.OrderCreated
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		return evt, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if evt.OrderID == 0 {
		return evt, fmt.Errorf("%w: missing order_id", ErrMalformedMessage)
	}
	return evt, nil
}

// HandleOrderMessage logs each committed order. It is the default consumer
// wired by the server.
func HandleOrderMessage(msg amqp.Delivery) error {
	evt, err := DecodeOrderCreated(msg)
	if err != nil {
		return err
	}
	log.Printf("Order %d committed for user %d: total %s, %d line(s)", evt.OrderID, evt.UserID, evt.Total.StringFixed(2), len(evt.Items))
	return nil
}
