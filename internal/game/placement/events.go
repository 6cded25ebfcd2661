package placement

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// EventType tags what a world manager must do for an event.
type EventType uint8

const (
	// EventSpawn creates the object's model instance.
	EventSpawn EventType = iota
	// EventAttachPhysics attaches a simulated body to a spawned instance.
	EventAttachPhysics
	// EventRegisterCheckpoint adds a spawned instance to the course.
	EventRegisterCheckpoint
)

var eventNames = [...]string{"spawn", "attach_physics", "register_checkpoint"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("event(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EventType) UnmarshalText(b []byte) error {
	for i, name := range eventNames {
		if name == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}

// Event is one side effect of decoding. Attach and register events always
// follow the spawn event of the same instance.
type Event struct {
	Type    EventType
	Request Request
}

// EventsFor expands a request into its events.
func EventsFor(r Request) []Event {
	events := []Event{{Type: EventSpawn, Request: r}}
	if r.Descriptor.Physics != PhysicsNone {
		events = append(events, Event{Type: EventAttachPhysics, Request: r})
	}
	if r.Descriptor.Kind == KindCheckpoint {
		events = append(events, Event{Type: EventRegisterCheckpoint, Request: r})
	}
	return events
}

// Events drains a request sequence into its ordered event list.
func Events(seq iter.Seq[Request]) []Event {
	var out []Event
	for r := range seq {
		out = append(out, EventsFor(r)...)
	}
	return out
}

// WorldManager consumes placement events. Implementations own the spawned
// objects; the decoder keeps nothing.
type WorldManager interface {
	Spawn(r Request) error
	AttachPhysics(id uuid.UUID, kind Physics) error
	RegisterCheckpoint(id uuid.UUID) error
}

// Apply hands every event to w in order. It stops at the first error.
func Apply(events []Event, w WorldManager) error {
	for _, e := range events {
		var err error
		switch e.Type {
		case EventSpawn:
			err = w.Spawn(e.Request)
		case EventAttachPhysics:
			err = w.AttachPhysics(e.Request.InstanceID, e.Request.Descriptor.Physics)
		case EventRegisterCheckpoint:
			err = w.RegisterCheckpoint(e.Request.InstanceID)
		default:
			err = errors.New("unknown event type")
		}
		if err != nil {
			return fmt.Errorf("applying %s for %s (%s): %w", e.Type, e.Request.Descriptor.Model, e.Request.InstanceID, err)
		}
	}
	return nil
}

// Counts tallies requests per model name.
func Counts(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Type == EventSpawn {
			counts[e.Request.Descriptor.Model]++
		}
	}
	return counts
}
