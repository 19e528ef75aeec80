package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/changeevent"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	err       error
	exchanges []string
	messages  []amqp.Publishing
}

func (f *fakeBroker) Publish(_ context.Context, exchange, _ string, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchanges = append(f.exchanges, exchange)
	f.messages = append(f.messages, msg)

	return nil
}

type fakeOutbox struct {
	err      error
	inserted []outbox.OutboxMessage
}

func (f *fakeOutbox) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, msg)

	return nil
}

func (f *fakeOutbox) GetPendingMessages(context.Context, time.Time, int) ([]outbox.OutboxMessage, error) {
	return nil, nil
}

func (f *fakeOutbox) Delete(context.Context, int64) error { return nil }

func (f *fakeOutbox) UpdateRetry(context.Context, int64, int, string, time.Time) error { return nil }

func TestProductsChangedPublishesEvent(t *testing.T) {
	broker := &fakeBroker{}
	box := &fakeOutbox{}
	pub := NewPublisher(broker, box, "storefront.products.changed", 0)

	require.NoError(t, pub.ProductsChanged(context.Background(), "p-1"))

	require.Len(t, broker.messages, 1)
	assert.Equal(t, "storefront.products.changed", broker.exchanges[0])
	assert.Empty(t, box.inserted)

	var ev changeevent.Event
	require.NoError(t, json.Unmarshal(broker.messages[0].Body, &ev))
	assert.Equal(t, changeevent.CollectionProducts, ev.Collection)
	assert.Equal(t, "p-1", ev.DocumentID)
	assert.Equal(t, ev.ID, broker.messages[0].MessageId)
	assert.NotEmpty(t, ev.ID)
}

func TestProductsChangedParksEventWhenBrokerFails(t *testing.T) {
	broker := &fakeBroker{err: errors.New("connection closed")}
	box := &fakeOutbox{}
	pub := NewPublisher(broker, box, "storefront.products.changed", 3)

	require.NoError(t, pub.ProductsChanged(context.Background(), "p-1"))

	require.Len(t, box.inserted, 1)
	msg := box.inserted[0]
	assert.Equal(t, "storefront.products.changed", msg.ExchangeName)
	assert.Equal(t, 3, msg.MaxRetries)
	assert.Equal(t, "connection closed", msg.LastError)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.NotEmpty(t, msg.MessageID)
}

func TestProductsChangedFailsWhenOutboxFails(t *testing.T) {
	broker := &fakeBroker{err: errors.New("connection closed")}
	box := &fakeOutbox{err: errors.New("db down")}
	pub := NewPublisher(broker, box, "x", 0)

	err := pub.ProductsChanged(context.Background(), "p-1")
	assert.ErrorIs(t, err, box.err)
}
