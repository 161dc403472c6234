package backdrop

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// Scheduler runs a callback before the next repaint, like a browser's
// requestAnimationFrame. now is the frame time in milliseconds.
type Scheduler interface {
	RequestFrame(fn func(now float64)) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn func(now float64)
}

// FrameQueue is a Scheduler driven by its host: the host calls RunFrame once
// per display refresh. Callbacks requested while a frame runs are deferred
// to the next RunFrame, so a self-rescheduling loop fires once per frame.
type FrameQueue struct {
	pending []frameRequest
	running []frameRequest
	nextID  FrameID
}

// RequestFrame queues fn for the next RunFrame.
func (q *FrameQueue) RequestFrame(fn func(now float64)) FrameID {
	q.nextID++
	q.pending = append(q.pending, frameRequest{id: q.nextID, fn: fn})
	return q.nextID
}

// CancelFrame removes a queued callback. Cancelling an unknown or already
// fired id is a no-op. A callback cancelled during RunFrame, before its turn,
// does not fire.
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.pending = removeFrame(q.pending, id)
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
		}
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// RunFrame fires every callback queued before the call and returns how many
// ran.
func (q *FrameQueue) RunFrame(now float64) int {
	q.running, q.pending = q.pending, q.running[:0]
	ran := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn(now)
		ran++
	}
	q.running = q.running[:0]
	return ran
}

func removeFrame(s []frameRequest, id FrameID) []frameRequest {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = frameRequest{}
			return s[:len(s)-1]
		}
	}
	return s
}
