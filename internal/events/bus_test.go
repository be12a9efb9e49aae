package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"leadrouter/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsHandlersAfterCallerCancels(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		calls.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls.Load())
	}
}

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	boom := errors.New("boom")
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { panic("bad handler") }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: BaseEvent{Timestamp: time.Now()}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
}

func TestNewBaseEventStampsIDAndUTC(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.ID == b.ID {
		t.Fatal("expected distinct event ids")
	}
	if a.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", a.Timestamp.Location())
	}
}

func TestLeadEventsSatisfyEvent(t *testing.T) {
	for _, e := range []Event{LeadCreated{}, LeadRouted{}, LeadStatusChanged{}} {
		if e.EventName() == "" {
			t.Fatalf("%T has no event name", e)
		}
	}
}
