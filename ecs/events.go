package ecs

// EventKind identifies event payloads.
type EventKind string

const (
	EventContact EventKind = "contact"
	EventTrigger EventKind = "trigger"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind EventKind
	Data any
}

// EventQueue is a simple FIFO queue. Events live for one tick: the World clears
// it at the start of each Update.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
