package backdrop

// PointerAbsent is the sentinel coordinate used while no pointer is over the
// viewport. It is far enough outside any viewport that no particle is
// within an influence radius of it.
const PointerAbsent = -1000.0

// PointerState is a read-only copy of the pointer cell taken once per frame.
type PointerState struct {
	X, Y    float64
	Radius  float64
	Present bool
	// Seq increments on every write, so readers can detect movement
	// between frames without comparing coordinates.
	Seq uint64
}

// Pointer is the single-owner mutable pointer cell of a layer. Host event
// handlers write it; the frame loop reads it through State.
type Pointer struct {
	state PointerState
}

// NewPointer creates an absent pointer with the given influence radius.
func NewPointer(radius float64) *Pointer {
	return &Pointer{state: PointerState{X: PointerAbsent, Y: PointerAbsent, Radius: radius}}
}

// Move records the pointer at (x, y).
func (p *Pointer) Move(x, y float64) {
	p.state.X = x
	p.state.Y = y
	p.state.Present = true
	p.state.Seq++
}

// Leave moves the pointer back to the absent sentinel.
func (p *Pointer) Leave() {
	p.state.X = PointerAbsent
	p.state.Y = PointerAbsent
	p.state.Present = false
	p.state.Seq++
}

// SetRadius changes the influence radius.
func (p *Pointer) SetRadius(r float64) {
	p.state.Radius = r
}

// State returns a copy of the current pointer state.
func (p *Pointer) State() PointerState {
	return p.state
}
