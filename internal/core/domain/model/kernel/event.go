package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state change. The
// persistence layer writes recorded events to the outbox in the same
// transaction as the change, and a relay publishes them after commit.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields every event shares. Embed it and add
// the payload fields; the whole struct is serialized to JSON.
type BaseEvent struct {
	ID          UUID      `json:"event_id"`
	Name        string    `json:"event_name"`
	AggregateOf UUID      `json:"aggregate_id"`
	At          time.Time `json:"occurred_at"`
}

func NewBaseEvent(name string, aggregateID UUID, at time.Time) BaseEvent {
	return BaseEvent{ID: NewUUID(), Name: name, AggregateOf: aggregateID, At: at.UTC()}
}

func (e BaseEvent) EventID() UUID {
	return e.ID
}

func (e BaseEvent) EventName() string {
	return e.Name
}

func (e BaseEvent) AggregateID() UUID {
	return e.AggregateOf
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.At
}

// EventRecorder is embedded by aggregates that raise domain events.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Record(e DomainEvent) {
	r.events = append(r.events, e)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
