package backdrop

import "github.com/hajimehoshi/ebiten/v2"

// syntheticEvent is a queued host event. Coordinates are in screen pixels,
// the same space as real cursor input.
type syntheticEvent struct {
	kind          EventType
	x, y          float64
	width, height int
}

// InjectMove queues a pointer move to (x, y). Injected events are consumed
// one per frame from the next Update.
func (s *Stage) InjectMove(x, y float64) {
	s.injected = append(s.injected, syntheticEvent{kind: EventPointerMove, x: x, y: y})
}

// InjectLeave queues the pointer leaving the window.
func (s *Stage) InjectLeave() {
	s.injected = append(s.injected, syntheticEvent{kind: EventPointerLeave})
}

// InjectResize queues a change of the logical screen size.
func (s *Stage) InjectResize(w, h int) {
	s.injected = append(s.injected, syntheticEvent{kind: EventResize, width: w, height: h})
}

// InjectSweep queues a pointer sweep from (fromX, fromY) to (toX, toY)
// spread over frames moves, both endpoints included. Minimum frames is 2.
func (s *Stage) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// Injected returns the number of queued synthetic events.
func (s *Stage) Injected() int { return len(s.injected) }

// processInjected pops one queued event and emits it. It reports whether an
// event was consumed, in which case real input is skipped this frame.
func (s *Stage) processInjected() bool {
	if len(s.injected) == 0 {
		return false
	}
	evt := s.injected[0]
	copy(s.injected, s.injected[1:])
	s.injected = s.injected[:len(s.injected)-1]

	switch evt.kind {
	case EventPointerMove:
		s.inside, s.lastX, s.lastY = true, evt.x, evt.y
		s.EmitPointerMove(evt.x, evt.y)
	case EventPointerLeave:
		s.inside = false
		s.EmitPointerLeave()
	case EventResize:
		if evt.width > 0 && evt.height > 0 {
			// Keep Layout from snapping back to the old window size.
			if s.resizable {
				ebiten.SetWindowSize(evt.width, evt.height)
			}
			s.resize(evt.width, evt.height)
		}
	}
	return true
}
