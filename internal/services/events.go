package services

import (
	"context"
	"sync"
	"time"

	"blogreact/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type ReactionAction string

const (
	ActionCreated ReactionAction = "created"
	ActionUpdated ReactionAction = "updated"
	ActionDeleted ReactionAction = "deleted"
)

type ReactionEvent struct {
	ID         uuid.UUID           `json:"id"`
	BlogID     uuid.UUID           `json:"blogId"`
	UserID     uuid.UUID           `json:"userId"`
	Type       models.ReactionType `json:"type"`
	Action     ReactionAction      `json:"action"`
	OccurredAt time.Time           `json:"occurredAt"`
}

func newReactionEvent(r *models.Reaction, action ReactionAction, at time.Time) ReactionEvent {
	return ReactionEvent{
		ID:         r.ID,
		BlogID:     r.BlogID,
		UserID:     r.UserID,
		Type:       r.Type,
		Action:     action,
		OccurredAt: at,
	}
}

// EventSink delivers a single event to its destination.
type EventSink interface {
	Publish(ctx context.Context, evt ReactionEvent) error
}

// NoopSink discards events; used when no broker is configured.
type NoopSink struct{}

func (NoopSink) Publish(context.Context, ReactionEvent) error { return nil }

const (
	eventBatchSize     = 50
	eventFlushInterval = 500 * time.Millisecond
)

type queuedEvent struct {
	evt     ReactionEvent
	carrier propagation.MapCarrier
}

// EventDispatcher publishes reaction events from a background worker so
// request handlers never wait on the broker.
type EventDispatcher struct {
	sink  EventSink
	log   *zap.Logger
	queue chan queuedEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewEventDispatcher(sink EventSink, size int, log *zap.Logger) *EventDispatcher {
	d := &EventDispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan queuedEvent, size),
		done:  make(chan struct{}),
	}
	go d.worker()
	return d
}

// Dispatch queues evt without blocking. Events are dropped when the queue
// is full or the dispatcher is closed.
func (d *EventDispatcher) Dispatch(ctx context.Context, evt ReactionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	select {
	case d.queue <- queuedEvent{evt: evt, carrier: carrier}:
	default:
		d.log.Warn("Reaction event queue full, dropping event",
			zap.String("reaction_id", evt.ID.String()),
			zap.String("action", string(evt.Action)))
	}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *EventDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *EventDispatcher) worker() {
	defer close(d.done)

	batch := make([]queuedEvent, 0, eventBatchSize)
	ticker := time.NewTicker(eventFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case item, ok := <-d.queue:
			if !ok {
				d.publishBatch(batch)
				return
			}
			batch = append(batch, item)
			if len(batch) >= eventBatchSize {
				d.publishBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.publishBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (d *EventDispatcher) publishBatch(batch []queuedEvent) {
	for _, item := range batch {
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), item.carrier)
		if err := d.sink.Publish(ctx, item.evt); err != nil {
			d.log.Error("Failed to publish reaction event",
				zap.String("reaction_id", item.evt.ID.String()),
				zap.String("action", string(item.evt.Action)),
				zap.Error(err))
		}
	}
}
