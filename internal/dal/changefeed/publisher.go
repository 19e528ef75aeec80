package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/changeevent"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const contentTypeJSON = "application/json"

type broker interface {
	Publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error
}

// Publisher announces collection changes. Events that cannot be published
// are parked in the outbox for the outbox worker.
type Publisher struct {
	broker     broker
	outboxRepo ioutboxrepo.IOutboxRepository
	exchange   string
	maxRetries int
	now        func() time.Time
}

func NewPublisher(
	broker broker,
	outboxRepo ioutboxrepo.IOutboxRepository,
	exchange string,
	maxRetries int,
) *Publisher {
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &Publisher{
		broker:     broker,
		outboxRepo: outboxRepo,
		exchange:   exchange,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// ProductsChanged publishes a change event for the products collection.
// It only fails when the event could neither be published nor parked.
func (p *Publisher) ProductsChanged(ctx context.Context, productID string) error {
	ev := changeevent.Event{
		ID:         uuid.NewString(),
		Collection: changeevent.CollectionProducts,
		DocumentID: productID,
		OccurredAt: p.now().UTC(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}

	pubErr := p.broker.Publish(ctx, p.exchange, "", amqp.Publishing{
		ContentType: contentTypeJSON,
		MessageId:   ev.ID,
		Timestamp:   ev.OccurredAt,
		Body:        payload,
	})
	if pubErr == nil {
		return nil
	}

	slog.Warn("Failed to publish change event, parking it in the outbox",
		"event_id", ev.ID,
		"error", pubErr,
	)

	err = p.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		MessageID:    ev.ID,
		ExchangeName: p.exchange,
		Payload:      payload,
		ContentType:  contentTypeJSON,
		MaxRetries:   p.maxRetries,
		LastError:    pubErr.Error(),
		NextRetryAt:  p.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to park change event %s: %w", ev.ID, err)
	}

	return nil
}
