package outbox

import (
	"time"
)

// OutboxMessage is a change event that could not be published to RabbitMQ
// and waits for the outbox worker.
type OutboxMessage struct {
	ID           int64
	MessageID    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
