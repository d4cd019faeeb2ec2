package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lalastore/pkg/events"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// messageWriter is the subset of *kafka.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events to a Kafka topic, keyed by order ID so all
// events of one order land on the same partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokersCSV, topic string) (*Publisher, error) {
	brokers := ParseBrokers(brokersCSV)
	if len(brokers) == 0 {
		return nil, ErrDisabled
	}
	return &Publisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}, nil
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, evt events.OrderCreated) error {
	return publishJSON(ctx, p.writer, strconv.FormatUint(uint64(evt.OrderID), 10), evt)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func publishJSON(ctx context.Context, writer messageWriter, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal kafka payload: %w", err)
	}
	if err := writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()}); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}
	return nil
}
