package adapters

import (
	"context"
	"fmt"

	"leadrouter/internal/events"
	"leadrouter/internal/leads/ports"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

// LeadTaskEnqueuer queues a lead for the routing worker.
type LeadTaskEnqueuer interface {
	EnqueueProcessLead(ctx context.Context, leadID uuid.UUID) error
}

// LeadProcessor runs the routing pipeline in-process.
type LeadProcessor interface {
	ProcessNewLead(ctx context.Context, leadID uuid.UUID) error
}

// LeadDispatcher hands new leads to the routing pipeline. With a queue it
// enqueues an asynq task; without one, or when enqueueing fails, it routes
// inline on the event bus goroutine.
type LeadDispatcher struct {
	queue     LeadTaskEnqueuer
	processor LeadProcessor
	log       *logger.Logger
}

// NewLeadDispatcher creates a dispatcher. queue may be nil.
func NewLeadDispatcher(queue LeadTaskEnqueuer, processor LeadProcessor, log *logger.Logger) *LeadDispatcher {
	return &LeadDispatcher{queue: queue, processor: processor, log: log}
}

// RegisterHandlers subscribes the dispatcher to LeadCreated.
func (d *LeadDispatcher) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(d.handleLeadCreated))
}

func (d *LeadDispatcher) handleLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return d.DispatchLead(ctx, e.LeadID)
}

// DispatchLead implements ports.LeadDispatcher.
func (d *LeadDispatcher) DispatchLead(ctx context.Context, leadID uuid.UUID) error {
	log := d.log.WithContext(ctx).WithLead(leadID.String())

	if d.queue != nil {
		err := d.queue.EnqueueProcessLead(ctx, leadID)
		if err == nil {
			log.Debug("lead enqueued for routing")
			return nil
		}
		log.Warn("enqueue failed, routing inline", "error", err)
	}

	if err := d.processor.ProcessNewLead(ctx, leadID); err != nil {
		log.Error("inline routing failed, the sweep will retry", "error", err)
		return err
	}
	return nil
}

var _ ports.LeadDispatcher = (*LeadDispatcher)(nil)
