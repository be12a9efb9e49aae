package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"

	"leadrouter/internal/events"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

type recordingQueue struct {
	mu    sync.Mutex
	leads []uuid.UUID
	err   error
}

func (q *recordingQueue) EnqueueProcessLead(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.leads = append(q.leads, id)
	return q.err
}

type recordingProcessor struct {
	mu    sync.Mutex
	leads []uuid.UUID
}

func (p *recordingProcessor) ProcessNewLead(_ context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leads = append(p.leads, id)
	return nil
}

func TestDispatchLeadEnqueues(t *testing.T) {
	q := &recordingQueue{}
	p := &recordingProcessor{}
	d := NewLeadDispatcher(q, p, logger.Discard())
	id := uuid.New()

	if err := d.DispatchLead(context.Background(), id); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(q.leads) != 1 || len(p.leads) != 0 {
		t.Fatalf("expected enqueue only, got queue=%v inline=%v", q.leads, p.leads)
	}
}

func TestDispatchLeadFallsBackInline(t *testing.T) {
	tests := []struct {
		name  string
		queue LeadTaskEnqueuer
	}{
		{"no queue", nil},
		{"enqueue fails", &recordingQueue{err: errors.New("redis unavailable")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingProcessor{}
			d := NewLeadDispatcher(tt.queue, p, logger.Discard())
			id := uuid.New()

			if err := d.DispatchLead(context.Background(), id); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			if len(p.leads) != 1 || p.leads[0] != id {
				t.Fatalf("expected inline processing of %s, got %v", id, p.leads)
			}
		})
	}
}

func TestLeadCreatedSubscription(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	q := &recordingQueue{}
	NewLeadDispatcher(q, &recordingProcessor{}, logger.Discard()).RegisterHandlers(bus)

	id := uuid.New()
	bus.Publish(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: id, Source: "webhook"})
	bus.Wait()

	if len(q.leads) != 1 || q.leads[0] != id {
		t.Fatalf("expected lead %s enqueued, got %v", id, q.leads)
	}
}
