package backdrop

// Host is everything a Layer needs from its environment: a viewport, a way
// to allocate surfaces, a per-refresh scheduler, and input notifications.
type Host interface {
	ViewportSize() (w, h int)
	NewSurface(w, h int) (Surface, error)
	Scheduler() Scheduler
	OnPointerMove(fn func(x, y float64)) CallbackHandle
	OnPointerLeave(fn func()) CallbackHandle
	OnResize(fn func(w, h int)) CallbackHandle
}

// HeadlessHost is a Host without a display. Frames advance only when
// Advance is called, and surfaces are RecordSurfaces, so whole runs are
// reproducible in tests and from the snapshot command.
type HeadlessHost struct {
	EventHub
	queue FrameQueue
	w, h  int
	now   float64

	// FailSurface makes NewSurface fail, for exercising setup errors.
	FailSurface bool
	surfaces    []*RecordSurface
}

// NewHeadlessHost creates a headless host with a w x h viewport.
func NewHeadlessHost(w, h int) *HeadlessHost {
	return &HeadlessHost{w: w, h: h}
}

// ViewportSize returns the current viewport size.
func (hh *HeadlessHost) ViewportSize() (int, int) { return hh.w, hh.h }

// NewSurface returns a RecordSurface, or ErrSurfaceUnavailable when
// FailSurface is set.
func (hh *HeadlessHost) NewSurface(w, h int) (Surface, error) {
	if hh.FailSurface {
		return nil, ErrSurfaceUnavailable
	}
	s := NewRecordSurface(w, h)
	hh.surfaces = append(hh.surfaces, s)
	return s, nil
}

// Surfaces returns every surface handed out so far.
func (hh *HeadlessHost) Surfaces() []*RecordSurface { return hh.surfaces }

// Scheduler returns the host's frame queue.
func (hh *HeadlessHost) Scheduler() Scheduler { return &hh.queue }

// Queue exposes the frame queue for inspection.
func (hh *HeadlessHost) Queue() *FrameQueue { return &hh.queue }

// Now returns the current frame time in milliseconds.
func (hh *HeadlessHost) Now() float64 { return hh.now }

// Advance runs frames display refreshes, each dtMillis apart. It returns the
// total number of callbacks fired.
func (hh *HeadlessHost) Advance(frames int, dtMillis float64) int {
	ran := 0
	for i := 0; i < frames; i++ {
		hh.now += dtMillis
		ran += hh.queue.RunFrame(hh.now)
	}
	return ran
}

// Resize changes the viewport and notifies subscribers.
func (hh *HeadlessHost) Resize(w, h int) {
	hh.w, hh.h = w, h
	hh.EmitResize(w, h)
}
