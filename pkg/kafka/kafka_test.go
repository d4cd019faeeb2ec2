package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"lalastore/pkg/events"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, ParseBrokers(""))
}

func TestNewPublisher_DisabledWithoutBrokers(t *testing.T) {
	_, err := NewPublisher("", "order.created")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPublisher_PublishOrderCreated(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w}
	evt := events.NewOrderCreated(12, 3, decimal.RequireFromString("20.00"), []events.OrderCreatedItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("10.00")},
	})

	require.NoError(t, p.PublishOrderCreated(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "12", string(w.msgs[0].Key))
	var decoded events.OrderCreated
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.True(t, decoded.Total.Equal(evt.Total))
}
