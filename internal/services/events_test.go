package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"blogreact/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memorySink struct {
	mu     sync.Mutex
	events []ReactionEvent
	fail   bool
}

func (s *memorySink) Publish(_ context.Context, evt ReactionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker unavailable")
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *memorySink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testEvent(action ReactionAction) ReactionEvent {
	return ReactionEvent{
		ID:         uuid.New(),
		BlogID:     uuid.New(),
		UserID:     uuid.New(),
		Type:       models.ReactionLike,
		Action:     action,
		OccurredAt: time.Now(),
	}
}

func TestEventDispatcherFlushesOnClose(t *testing.T) {
	sink := &memorySink{}
	d := NewEventDispatcher(sink, 200, zap.NewNop())

	for i := 0; i < 120; i++ {
		d.Dispatch(context.Background(), testEvent(ActionCreated))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sink.len() != 120 {
		t.Errorf("Expected 120 events, got %d", sink.len())
	}

	// Events after Close are ignored and must not panic.
	d.Dispatch(context.Background(), testEvent(ActionDeleted))
	if err := d.Close(ctx); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestEventDispatcherPublishesOnTick(t *testing.T) {
	sink := &memorySink{}
	d := NewEventDispatcher(sink, 10, zap.NewNop())
	defer d.Close(context.Background())

	d.Dispatch(context.Background(), testEvent(ActionUpdated))

	deadline := time.Now().Add(3 * time.Second)
	for sink.len() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if sink.len() != 1 {
		t.Fatalf("Expected event published by ticker, got %d", sink.len())
	}
}

func TestEventDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &memorySink{fail: true}
	d := NewEventDispatcher(sink, 10, zap.NewNop())

	d.Dispatch(context.Background(), testEvent(ActionCreated))
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sink.len() != 0 {
		t.Errorf("Expected no delivered events")
	}
}

func TestNatsEventSinkMessage(t *testing.T) {
	sink := NewNatsEventSink(nil)
	evt := testEvent(ActionDeleted)

	msg, err := sink.message(context.Background(), evt)
	if err != nil {
		t.Fatalf("message failed: %v", err)
	}
	if msg.Subject != "reaction.deleted" {
		t.Errorf("Expected subject reaction.deleted, got %s", msg.Subject)
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["blogId"] != evt.BlogID.String() || decoded["action"] != "deleted" || decoded["type"] != "like" {
		t.Errorf("Unexpected payload %v", decoded)
	}
}
