package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retryCall struct {
	id          int64
	retryCount  int
	lastError   string
	nextRetryAt time.Time
}

type fakeRepo struct {
	pending []outbox.OutboxMessage
	deleted []int64
	retries []retryCall
	getErr  error
}

func (r *fakeRepo) Insert(context.Context, outbox.OutboxMessage) error { return nil }

func (r *fakeRepo) GetPendingMessages(_ context.Context, _ time.Time, limit int) ([]outbox.OutboxMessage, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}

	return r.pending, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)

	return nil
}

func (r *fakeRepo) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	r.retries = append(r.retries, retryCall{id, retryCount, lastError, nextRetryAt})

	return nil
}

type fakePublisher struct {
	failFor map[string]error
	sent    []amqp.Publishing
}

func (p *fakePublisher) Publish(_ context.Context, _, _ string, msg amqp.Publishing) error {
	if err := p.failFor[msg.MessageId]; err != nil {
		return err
	}
	p.sent = append(p.sent, msg)

	return nil
}

func newTestWorker(repo *fakeRepo, pub *fakePublisher) *Worker {
	w := NewWorker(repo, pub)
	w.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	return w
}

func TestProcessMessagesDeletesPublished(t *testing.T) {
	repo := &fakeRepo{pending: []outbox.OutboxMessage{
		{ID: 1, MessageID: "ev-1", Payload: []byte(`{}`), ContentType: "application/json"},
		{ID: 2, MessageID: "ev-2", Payload: []byte(`{}`), ContentType: "application/json"},
	}}
	pub := &fakePublisher{}

	newTestWorker(repo, pub).processMessages(context.Background())

	assert.Equal(t, []int64{1, 2}, repo.deleted)
	require.Len(t, pub.sent, 2)
	assert.Equal(t, "ev-1", pub.sent[0].MessageId)
	assert.Empty(t, repo.retries)
}

func TestProcessMessagesSchedulesRetry(t *testing.T) {
	repo := &fakeRepo{pending: []outbox.OutboxMessage{
		{ID: 7, MessageID: "ev-7", RetryCount: 1},
	}}
	pub := &fakePublisher{failFor: map[string]error{"ev-7": errors.New("channel closed")}}
	w := newTestWorker(repo, pub)

	w.processMessages(context.Background())

	assert.Empty(t, repo.deleted)
	require.Len(t, repo.retries, 1)
	call := repo.retries[0]
	assert.Equal(t, int64(7), call.id)
	assert.Equal(t, 2, call.retryCount)
	assert.Equal(t, "channel closed", call.lastError)
	assert.Equal(t, w.now().Add(2*time.Minute), call.nextRetryAt)
}

func TestProcessMessagesRepositoryError(t *testing.T) {
	repo := &fakeRepo{getErr: errors.New("db down")}
	pub := &fakePublisher{}

	newTestWorker(repo, pub).processMessages(context.Background())

	assert.Empty(t, pub.sent)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Minute, backoff(1))
	assert.Equal(t, 2*time.Minute, backoff(2))
	assert.Equal(t, 4*time.Minute, backoff(3))
}

func TestStopIsIdempotent(t *testing.T) {
	w := newTestWorker(&fakeRepo{}, &fakePublisher{})
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()
	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
