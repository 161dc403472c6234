package backdrop

import "math"

// BoundaryPolicy selects what happens when a particle leaves the viewport.
type BoundaryPolicy uint8

const (
	// BoundaryWrap relocates a particle to the opposite side once it is more
	// than Margin pixels outside the viewport.
	BoundaryWrap BoundaryPolicy = iota
	// BoundaryReflect inverts the offending velocity component, scales it by
	// Damping, and clamps the position to the viewport edge.
	BoundaryReflect
	// BoundaryNone lets particles drift away.
	BoundaryNone
)

// String returns the policy name used in configuration files.
func (b BoundaryPolicy) String() string {
	switch b {
	case BoundaryWrap:
		return "wrap"
	case BoundaryReflect:
		return "reflect"
	default:
		return "none"
	}
}

// IsBoundary reports whether s names a boundary policy. The empty string
// means none.
func IsBoundary(s string) bool {
	switch s {
	case "", "none", "wrap", "reflect", "bounce":
		return true
	}
	return false
}

// ParseBoundary converts a configuration name into a BoundaryPolicy.
// Unknown names map to BoundaryNone; Config.Validate rejects them first.
func ParseBoundary(s string) BoundaryPolicy {
	switch s {
	case "wrap":
		return BoundaryWrap
	case "reflect", "bounce":
		return BoundaryReflect
	default:
		return BoundaryNone
	}
}

// zeroDistance is the pointer distance below which the repulsion direction
// is undefined and DefaultRepelDir is used instead.
const zeroDistance = 1e-9

// DefaultRepelDir is the push direction for a particle sitting exactly on
// the pointer.
var DefaultRepelDir = Vec2{X: 1, Y: 0}

// Integrator advances particles one tick at a time.
type Integrator struct {
	// Force scales the unit vector of the field angle.
	Force float64
	// Jitter is the width of the uniform random kick added per axis whenever
	// the field contributes.
	Jitter float64
	// PointerForce is the repulsion at distance 0; it falls linearly to 0
	// at the pointer radius.
	PointerForce float64
	// MaxSpeed caps the velocity magnitude. Zero disables the clamp.
	MaxSpeed float64
	// Boundary is the edge policy.
	Boundary BoundaryPolicy
	// Margin is how far outside the viewport a wrapping particle may travel.
	Margin float64
	// Damping scales a reflected velocity component (1 keeps full speed).
	Damping float64

	rng *Rand
}

// NewIntegrator creates an integrator drawing jitter from rng.
func NewIntegrator(rng *Rand) *Integrator {
	return &Integrator{Damping: 1, rng: rng}
}

// Step advances p by one tick. field may be nil. It reports whether the
// particle was respawned, in which case no other update happened this tick.
func (in *Integrator) Step(p *Particle, field Field, t float64, ptr PointerState, bounds Rect) bool {
	// 1. Age and respawn.
	p.Age++
	if p.MaxLife > 0 && p.Age > p.MaxLife {
		respawn(p, bounds, in.rng)
		return true
	}

	// 2. Field force with jitter. Out-of-range samples contribute nothing.
	if field != nil {
		if angle, ok := field.Sample(p.Pos.X, p.Pos.Y, t); ok {
			p.Vel.X += math.Cos(angle) * in.Force
			p.Vel.Y += math.Sin(angle) * in.Force
			if in.Jitter > 0 && in.rng != nil {
				p.Vel.X += in.rng.Jitter(in.Jitter)
				p.Vel.Y += in.rng.Jitter(in.Jitter)
			}
		}
	}

	// 3. Pointer repulsion.
	p.Vel = p.Vel.Add(in.PointerPush(p.Pos, ptr))

	// 4. Speed clamp.
	if in.MaxSpeed > 0 {
		if speed := p.Vel.Len(); speed > in.MaxSpeed {
			p.Vel = p.Vel.Scale(in.MaxSpeed / speed)
		}
	}

	// 5. Integrate.
	p.Pos = p.Pos.Add(p.Vel)

	// 6. Boundary.
	in.applyBoundary(p, bounds)

	// 7. Trail.
	p.Trail.Push(p.Pos)
	return false
}

// PointerPush returns the velocity change a particle at pos receives from
// the pointer: zero outside the radius, otherwise directed away from the
// pointer with magnitude PointerForce*(radius-d)/radius.
func (in *Integrator) PointerPush(pos Vec2, ptr PointerState) Vec2 {
	if !ptr.Present || ptr.Radius <= 0 || in.PointerForce == 0 {
		return Vec2{}
	}
	d := pos.Sub(Vec2{ptr.X, ptr.Y})
	dist := d.Len()
	if dist >= ptr.Radius {
		return Vec2{}
	}
	dir := DefaultRepelDir
	if dist > zeroDistance {
		dir = d.Scale(1 / dist)
	}
	strength := (ptr.Radius - dist) / ptr.Radius * in.PointerForce
	return dir.Scale(strength)
}

func (in *Integrator) applyBoundary(p *Particle, b Rect) {
	switch in.Boundary {
	case BoundaryWrap:
		m := in.Margin
		minX, maxX := b.X-m, b.X+b.Width+m
		minY, maxY := b.Y-m, b.Y+b.Height+m
		if p.Pos.X < minX {
			p.Pos.X = maxX
		} else if p.Pos.X > maxX {
			p.Pos.X = minX
		}
		if p.Pos.Y < minY {
			p.Pos.Y = maxY
		} else if p.Pos.Y > maxY {
			p.Pos.Y = minY
		}
	case BoundaryReflect:
		if p.Pos.X < b.X || p.Pos.X > b.X+b.Width {
			p.Vel.X *= -in.Damping
			p.Pos.X = math.Max(b.X, math.Min(b.X+b.Width, p.Pos.X))
		}
		if p.Pos.Y < b.Y || p.Pos.Y > b.Y+b.Height {
			p.Vel.Y *= -in.Damping
			p.Pos.Y = math.Max(b.Y, math.Min(b.Y+b.Height, p.Pos.Y))
		}
	}
}

// StepAll advances every particle in the store. The field is refreshed for
// t first when it implements Refresher. It returns the number of respawns.
func (in *Integrator) StepAll(s *ParticleStore, field Field, t float64, ptr PointerState) int {
	if r, ok := field.(Refresher); ok {
		r.Refresh(t)
	}
	bounds := s.Bounds()
	respawned := 0
	for i := range s.particles {
		if in.Step(&s.particles[i], field, t, ptr, bounds) {
			respawned++
		}
	}
	return respawned
}
