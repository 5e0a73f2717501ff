package rabbitmq

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	handler := LogEvents(zerolog.New(&buf))

	err := handler(amqp.Delivery{
		RoutingKey: "product.created",
		Body:       []byte(`{"type":"product.created","id":"p1"}`),
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"routing_key":"product.created"`)
	assert.Contains(t, buf.String(), `"event":{"type":"product.created","id":"p1"}`)
}

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{logger: zerolog.Nop()}

	assert.Error(t, c.Publish("product.created", []byte(`{}`)))
	assert.Error(t, c.ConsumeEvents(LogEvents(zerolog.Nop())))
	assert.NoError(t, c.Close())
}
