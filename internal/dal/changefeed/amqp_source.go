package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/storefront/internal/service/models/changeevent"
	"github.com/streadway/amqp"
)

// AMQPSource receives change events from a fanout exchange through an
// exclusive, server-named queue, so every process sees every event.
type AMQPSource struct {
	client   *rabbitmq.Client
	exchange string
}

func NewAMQPSource(client *rabbitmq.Client, exchange string) *AMQPSource {
	return &AMQPSource{
		client:   client,
		exchange: exchange,
	}
}

// Listen opens a dedicated channel that is closed when ctx is done.
func (s *AMQPSource) Listen(ctx context.Context) (<-chan changeevent.Event, error) {
	ch, err := s.client.Connection().Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := rabbitmq.DeclareQueue(ch, rabbitmq.DeclareQueueConfig{
		Name:       "",
		Durable:    false,
		AutoDelete: true,
		Exclusive:  true,
	})
	if err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, "", s.exchange, false, nil); err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("failed to bind queue %s to %s: %w", queue.Name, s.exchange, err)
	}

	deliveries, err := rabbitmq.Consume(ch, rabbitmq.ConsumeConfig{
		Queue:     queue.Name,
		AutoAck:   true,
		Exclusive: true,
	})
	if err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("failed to consume from %s: %w", queue.Name, err)
	}

	slog.Info("Listening for product changes", "exchange", s.exchange, "queue", queue.Name)

	out := make(chan changeevent.Event)
	go func() {
		defer close(out)
		defer func() {
			if err := ch.Close(); err != nil && err != amqp.ErrClosed {
				slog.Error("Failed to close change feed channel", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var ev changeevent.Event
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					slog.Error("Failed to decode change event", "error", err)

					continue
				}

				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
