package rabbitmq_test

import (
	"encoding/json"
	"testing"

	"lalastore/pkg/events"
	"lalastore/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := rabbitmq.NewClient(rabbitmq.Config{URL: "not-a-url", Exchange: "orders"})
	assert.Error(t, err)
}

func TestDecodeOrderCreated(t *testing.T) {
	evt := events.NewOrderCreated(5, 2, decimal.RequireFromString("15.50"), nil)
	body, err := json.Marshal(evt)
	require.NoError(t, err)

	decoded, err := rabbitmq.DecodeOrderCreated(amqp.Delivery{Body: body})
	require.NoError(t, err)
	assert.Equal(t, uint(5), decoded.OrderID)
	assert.True(t, decoded.Total.Equal(evt.Total))
	assert.NoError(t, rabbitmq.HandleOrderMessage(amqp.Delivery{Body: body}))
}

func TestDecodeOrderCreated_Malformed(t *testing.T) {
	_, err := rabbitmq.DecodeOrderCreated(amqp.Delivery{Body: []byte("{not json")})
	assert.ErrorIs(t, err, rabbitmq.ErrMalformedMessage)

	_, err = rabbitmq.DecodeOrderCreated(amqp.Delivery{Body: []byte(`{"user_id":1}`)})
	assert.ErrorIs(t, err, rabbitmq.ErrMalformedMessage)
}
