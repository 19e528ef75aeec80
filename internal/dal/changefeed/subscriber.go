package changefeed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/changeevent"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"go.opentelemetry.io/otel"
)

// eventSource delivers change events until ctx is cancelled, then closes the channel.
type eventSource interface {
	Listen(ctx context.Context) (<-chan changeevent.Event, error)
}

// snapshotLoader returns the full product collection, newest first.
type snapshotLoader interface {
	List(ctx context.Context) ([]product.Product, error)
}

const (
	defaultRetryDelay    = time.Second
	maxRetryDelay        = 30 * time.Second
	defaultRetryAttempts = 10
)

// Subscriber keeps a callback in sync with the product collection.
type Subscriber struct {
	source        eventSource
	loader        snapshotLoader
	retryDelay    time.Duration
	retryAttempts int
}

// option is a function that configures the Subscriber.
type option func(*Subscriber)

// WithResubscribe sets how a closed feed is re-established: the first retry
// waits delay, each next one twice as long, and the subscription ends after
// attempts failed tries.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithResubscribe(delay time.Duration, attempts int) option {
	return func(s *Subscriber) {
		if delay > 0 {
			s.retryDelay = delay
		}
		if attempts > 0 {
			s.retryAttempts = attempts
		}
	}
}

func NewSubscriber(source eventSource, loader snapshotLoader, opts ...option) *Subscriber {
	s := &Subscriber{
		source:        source,
		loader:        loader,
		retryDelay:    defaultRetryDelay,
		retryAttempts: defaultRetryAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Subscription is a running realtime subscription.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Stop releases the event source and waits for the delivery loop to exit.
// Calling Stop more than once is a no-op.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the delivery loop has exited, after Stop or when the
// feed could not be re-established.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Start delivers the current snapshot to onChange before returning, then
// redelivers the full snapshot after every change event. When the feed closes
// it is re-established and the snapshot reloaded, since events may have been
// missed meanwhile. Calls to onChange never overlap.
func (s *Subscriber) Start(
	ctx context.Context,
	onChange func([]product.Product),
) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	events, err := s.source.Listen(subCtx)
	if err != nil {
		cancel()

		return nil, fmt.Errorf("failed to listen for product changes: %w", err)
	}

	snapshot, err := s.loader.List(ctx)
	if err != nil {
		cancel()

		return nil, fmt.Errorf("failed to load initial product snapshot: %w", err)
	}
	onChange(snapshot)

	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.loop(subCtx, events, onChange, sub.done)

	return sub, nil
}

func (s *Subscriber) loop(
	ctx context.Context,
	events <-chan changeevent.Event,
	onChange func([]product.Product),
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				slog.Warn("Product change feed closed, resubscribing")
				events = s.resubscribe(ctx)
				if events == nil {
					return
				}
				s.reload(ctx, changeevent.Event{}, onChange)

				continue
			}
			// Every reload reads the whole collection, so queued events collapse into one.
			drain(events)
			s.reload(ctx, ev, onChange)
		}
	}
}

// resubscribe listens again with exponential backoff. It returns nil when ctx
// is done or every attempt failed.
func (s *Subscriber) resubscribe(ctx context.Context) <-chan changeevent.Event {
	delay := s.retryDelay
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}

		events, err := s.source.Listen(ctx)
		if err == nil {
			slog.Info("Product change feed re-established", "attempt", attempt)

			return events
		}
		slog.Error("Failed to resubscribe to product changes", "attempt", attempt, "error", err)

		delay = min(delay*2, maxRetryDelay)
	}

	slog.Error("Giving up on product change feed", "attempts", s.retryAttempts)

	return nil
}

func (s *Subscriber) reload(ctx context.Context, ev changeevent.Event, onChange func([]product.Product)) {
	ctx, span := otel.Tracer("changefeed").Start(ctx, "Subscriber.reload")
	defer span.End()

	snapshot, err := s.loader.List(ctx)
	if err != nil {
		slog.Error("Failed to reload product snapshot, keeping previous one",
			"event_id", ev.ID,
			"error", err,
		)

		return
	}

	slog.Debug("Product snapshot reloaded", "event_id", ev.ID, "count", len(snapshot))
	onChange(snapshot)
}

func drain(events <-chan changeevent.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
