package backdrop

// Trail is a fixed-capacity history of recent positions, oldest first.
// Pushing past capacity evicts the oldest point. The backing array is
// allocated once and never grows.
type Trail struct {
	points []Vec2
	head   int // index of the oldest point
	n      int
}

// NewTrail creates a trail holding at most capacity points. A zero capacity
// trail records nothing.
func NewTrail(capacity int) Trail {
	if capacity < 0 {
		capacity = 0
	}
	return Trail{points: make([]Vec2, capacity)}
}

// Cap returns the trail capacity.
func (t *Trail) Cap() int { return len(t.points) }

// Len returns the number of recorded points.
func (t *Trail) Len() int { return t.n }

// Push records p as the newest point.
func (t *Trail) Push(p Vec2) {
	c := len(t.points)
	if c == 0 {
		return
	}
	if t.n < c {
		t.points[(t.head+t.n)%c] = p
		t.n++
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % c
}

// At returns the i-th point, where 0 is the oldest and Len()-1 the newest.
func (t *Trail) At(i int) Vec2 {
	return t.points[(t.head+i)%len(t.points)]
}

// Newest returns the most recent point. ok is false for an empty trail.
func (t *Trail) Newest() (Vec2, bool) {
	if t.n == 0 {
		return Vec2{}, false
	}
	return t.At(t.n - 1), true
}

// Reset forgets all points without releasing storage.
func (t *Trail) Reset() {
	t.head = 0
	t.n = 0
}

// AppendTo appends the points oldest-first to dst and returns it.
func (t *Trail) AppendTo(dst []Vec2) []Vec2 {
	for i := 0; i < t.n; i++ {
		dst = append(dst, t.At(i))
	}
	return dst
}
