package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventTypeCollision = "collision"

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventGrounded   CollisionEventKind = "grounded"
	CollisionEventLeftGround CollisionEventKind = "left_ground"
)

// CollisionEvent is emitted when a contact sensor starts or stops touching.
type CollisionEvent struct {
	Entity Entity
	Kind   CollisionEventKind
}

const EventTypeInteract = "interact"

// InteractEvent records a click that reached a handler. Target is the entity
// the ray hit; Owner is the entity carrying the handler, which may be an
// ancestor of Target.
type InteractEvent struct {
	Target    Entity
	Owner     Entity
	HandlerID string
}

// EventQueue is a simple FIFO queue.
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

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
