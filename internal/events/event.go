// Package events is the in-process bus the leads module uses to hand work to
// the dispatcher and to feed metrics, plus the lead events published on it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is anything published on the bus. EventName is the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by every lead event. ID ties handler log lines for
// one publish together.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is what publishers and subscribers depend on.
type Bus interface {
	// Publish hands the event to its handlers in the background. Handlers
	// outlive the caller's context.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the handlers in order and joins their errors.
	PublishSync(ctx context.Context, event Event) error

	Subscribe(eventName string, handler Handler)
}

// Routing methods reported on LeadRouted.
const (
	RoutedByAccount   = "account"
	RoutedByTerritory = "territory"
)

// LeadCreated is published after a lead is persisted with status NEW.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Source string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadRouted is published after the routing transaction commits with a rep
// assigned. Leads left NEW publish nothing.
type LeadRouted struct {
	BaseEvent
	LeadID        uuid.UUID     `json:"leadId"`
	RepID         uuid.UUID     `json:"repId"`
	Method        string        `json:"method"`
	TerritoryName string        `json:"territoryName,omitempty"`
	Score         int           `json:"score"`
	Duration      time.Duration `json:"duration"`
}

func (e LeadRouted) EventName() string { return "leads.lead.routed" }

// LeadStatusChanged is published after a manual or system status transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Actor      string    `json:"actor"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }
