package state

import "math"

// Pointer is a surface-local coordinate produced from one input event.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the point halfway between p and q.
func (p Pointer) Mid(q Pointer) Pointer {
	return Pointer{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Dist returns the Euclidean distance between p and q.
func (p Pointer) Dist(q Pointer) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is the on-screen bounding rectangle of the drawing surface.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// EventName identifies a relay event.
type EventName string

const (
	EventUpdate EventName = "canvas:update"
	EventErased EventName = "canvas:erased"
	EventClear  EventName = "canvas:clear"
)

// Valid reports whether n is one of the three relay events.
func (n EventName) Valid() bool {
	switch n {
	case EventUpdate, EventErased, EventClear:
		return true
	}
	return false
}

// Event is what travels over the relay: a name and, except for clear, a
// snapshot of the sender's committed surface.
type Event struct {
	Name     EventName
	Snapshot Snapshot
}

// Relay is the broadcast channel connecting peers. Emit delivers an event to
// every other peer; Subscribe registers a handler for events from others and
// returns a function that removes it.
type Relay interface {
	Emit(Event) error
	Subscribe(func(Event)) (release func())
}
