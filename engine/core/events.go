package core

import "github.com/go-gl/mathgl/mgl64"

// Event represents a camera or pointer event
type Event struct {
	Type    EventType
	Frame   uint64
	Payload interface{}
}

type EventType uint16

const (
	EvtViewportResized EventType = iota
	EvtZoomed
	EvtPanned
	EvtCentered
	EvtPicked
	EvtOverlayUnavailable
)

var eventNames = map[EventType]string{
	EvtViewportResized:    "viewport_resized",
	EvtZoomed:             "zoomed",
	EvtPanned:             "panned",
	EvtCentered:           "centered",
	EvtPicked:             "picked",
	EvtOverlayUnavailable: "overlay_unavailable",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// ResizePayload accompanies EvtViewportResized
type ResizePayload struct {
	ScreenW, ScreenH int
}

// ZoomPayload accompanies EvtZoomed
type ZoomPayload struct {
	From, To float64
}

// PanPayload accompanies EvtPanned and EvtCentered
type PanPayload struct {
	From, To mgl64.Vec2
}

// PickPayload accompanies EvtPicked: a pointer press mapped to both spaces
type PickPayload struct {
	ScreenX, ScreenY int
	World            mgl64.Vec3
	WorldOK          bool
	Overlay          mgl64.Vec3
	OverlayOK        bool
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
	frame     uint64
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch, stamped with the current frame
func (eb *EventBus) Emit(e Event) {
	e.Frame = eb.frame
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events and advances the frame counter
func (eb *EventBus) Dispatch() {
	for _, e := range eb.queue {
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
	eb.queue = eb.queue[:0]
	eb.frame++
}
