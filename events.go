package backdrop

// EventType identifies a host notification.
type EventType uint8

const (
	EventPointerMove  EventType = iota // pointer moved to absolute viewport coordinates
	EventPointerLeave                  // pointer left the viewport
	EventResize                        // viewport changed size
)

// PointerEvent is the payload forwarded to an EventSink.
type PointerEvent struct {
	Type          EventType
	X, Y          float64
	Width, Height int // valid for EventResize
}

// EventSink receives every host event, e.g. to bridge them into an ECS.
type EventSink interface {
	EmitEvent(event PointerEvent)
}

type moveHandler struct {
	id uint32
	fn func(x, y float64)
}

type leaveHandler struct {
	id uint32
	fn func()
}

type resizeHandler struct {
	id uint32
	fn func(w, h int)
}

type handlerRegistry struct {
	move   []moveHandler
	leave  []leaveHandler
	resize []resizeHandler
	nextID uint32
}

// CallbackHandle allows removing a registered host callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.move = removeHandler(h.reg.move, func(e moveHandler) bool { return e.id == h.id })
	case EventPointerLeave:
		h.reg.leave = removeHandler(h.reg.leave, func(e leaveHandler) bool { return e.id == h.id })
	case EventResize:
		h.reg.resize = removeHandler(h.reg.resize, func(e resizeHandler) bool { return e.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// EventHub is the subscription half of a Host. Hosts embed it and call the
// Emit methods from their input processing.
type EventHub struct {
	handlers handlerRegistry
	sink     EventSink
}

// OnPointerMove registers fn for pointer moves.
func (h *EventHub) OnPointerMove(fn func(x, y float64)) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.move = append(h.handlers.move, moveHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventPointerMove}
}

// OnPointerLeave registers fn for the pointer leaving the viewport.
func (h *EventHub) OnPointerLeave(fn func()) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.leave = append(h.handlers.leave, leaveHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventPointerLeave}
}

// OnResize registers fn for viewport resizes.
func (h *EventHub) OnResize(fn func(w, h int)) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.resize = append(h.handlers.resize, resizeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventResize}
}

// SetEventSink sets an optional receiver for every emitted event.
func (h *EventHub) SetEventSink(sink EventSink) {
	h.sink = sink
}

// Subscribers returns the number of live subscriptions across all events.
func (h *EventHub) Subscribers() int {
	return len(h.handlers.move) + len(h.handlers.leave) + len(h.handlers.resize)
}

// EmitPointerMove notifies move subscribers.
func (h *EventHub) EmitPointerMove(x, y float64) {
	for i := 0; i < len(h.handlers.move); i++ {
		h.handlers.move[i].fn(x, y)
	}
	if h.sink != nil {
		h.sink.EmitEvent(PointerEvent{Type: EventPointerMove, X: x, Y: y})
	}
}

// EmitPointerLeave notifies leave subscribers.
func (h *EventHub) EmitPointerLeave() {
	for i := 0; i < len(h.handlers.leave); i++ {
		h.handlers.leave[i].fn()
	}
	if h.sink != nil {
		h.sink.EmitEvent(PointerEvent{Type: EventPointerLeave, X: PointerAbsent, Y: PointerAbsent})
	}
}

// EmitResize notifies resize subscribers.
func (h *EventHub) EmitResize(w, ht int) {
	for i := 0; i < len(h.handlers.resize); i++ {
		h.handlers.resize[i].fn(w, ht)
	}
	if h.sink != nil {
		h.sink.EmitEvent(PointerEvent{Type: EventResize, Width: w, Height: ht})
	}
}
