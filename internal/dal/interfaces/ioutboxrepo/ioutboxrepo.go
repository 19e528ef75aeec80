package ioutboxrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
)

// IOutboxRepository stores change events waiting to be republished.
type IOutboxRepository interface {
	Insert(ctx context.Context, msg outbox.OutboxMessage) error

	// GetPendingMessages returns up to limit messages due at now that still have retries left.
	GetPendingMessages(ctx context.Context, now time.Time, limit int) ([]outbox.OutboxMessage, error)

	Delete(ctx context.Context, id int64) error

	UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
}
