package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/jmoiron/sqlx"
)

// OutboxDal represents outbox data access layer model
type OutboxDal struct {
	Id           int64     `db:"id"`
	MessageId    string    `db:"message_id"`
	ExchangeName string    `db:"exchange_name"`
	RoutingKey   string    `db:"routing_key"`
	Payload      []byte    `db:"payload"`
	ContentType  string    `db:"content_type"`
	RetryCount   int       `db:"retry_count"`
	MaxRetries   int       `db:"max_retries"`
	LastError    string    `db:"last_error"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	NextRetryAt  time.Time `db:"next_retry_at"`
}

func (d *OutboxDal) ToModel() outbox.OutboxMessage {
	return outbox.OutboxMessage{
		ID:           d.Id,
		MessageID:    d.MessageId,
		ExchangeName: d.ExchangeName,
		RoutingKey:   d.RoutingKey,
		Payload:      d.Payload,
		ContentType:  d.ContentType,
		RetryCount:   d.RetryCount,
		MaxRetries:   d.MaxRetries,
		LastError:    d.LastError,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		NextRetryAt:  d.NextRetryAt,
	}
}

// OutboxRepository implements the outbox repository for PostgreSQL.
type OutboxRepository struct {
	conn sqlx.ExtContext
}

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository(conn sqlx.ExtContext) *OutboxRepository {
	return &OutboxRepository{
		conn: conn,
	}
}

// Insert adds a new message to the outbox.
func (r *OutboxRepository) Insert(ctx context.Context, msg outbox.OutboxMessage) error {
	query, args, err := sq.Insert("outbox").
		Columns(
			"message_id",
			"exchange_name",
			"routing_key",
			"payload",
			"content_type",
			"retry_count",
			"max_retries",
			"last_error",
			"next_retry_at",
		).
		Values(
			msg.MessageID,
			msg.ExchangeName,
			msg.RoutingKey,
			msg.Payload,
			msg.ContentType,
			msg.RetryCount,
			msg.MaxRetries,
			msg.LastError,
			msg.NextRetryAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPendingMessages retrieves messages due at now that still have retries left.
func (r *OutboxRepository) GetPendingMessages(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]outbox.OutboxMessage, error) {
	query, args, err := sq.Select(
		"id",
		"message_id",
		"exchange_name",
		"routing_key",
		"payload",
		"content_type",
		"retry_count",
		"max_retries",
		"last_error",
		"created_at",
		"updated_at",
		"next_retry_at",
	).
		From("outbox").
		Where(sq.LtOrEq{"next_retry_at": now}).
		Where(sq.Expr("retry_count < max_retries")).
		OrderBy("next_retry_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dals []OutboxDal
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query outbox messages: %w", err)
	}

	messages := make([]outbox.OutboxMessage, len(dals))
	for i := range dals {
		messages[i] = dals[i].ToModel()
	}

	return messages, nil
}

// Delete removes a message after successful delivery.
func (r *OutboxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("outbox").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete outbox message: %w", err)
	}

	return nil
}

// UpdateRetry records a failed attempt and schedules the next one.
func (r *OutboxRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	query, args, err := sq.Update("outbox").
		Set("retry_count", retryCount).
		Set("last_error", lastError).
		Set("next_retry_at", nextRetryAt).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update outbox message: %w", err)
	}

	return nil
}
