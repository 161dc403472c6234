package backdrop

import "math"

// FlowField streams particles along a time-varying angle field. Particles
// leave fading trails, are pushed away from the pointer, wrap around the
// viewport edges, and respawn when their lifetime runs out.
type FlowField struct {
	cfg FlowFieldConfig

	field      Field
	store      *ParticleStore
	integrator *Integrator
	renderer   ParticleRenderer
}

// NewFlowField creates an unmounted FlowField.
func NewFlowField(cfg FlowFieldConfig) *FlowField {
	return &FlowField{cfg: cfg}
}

// Name implements Effect.
func (e *FlowField) Name() string { return "flowfield" }

// PointerRadius implements PointerInfluence.
func (e *FlowField) PointerRadius() float64 { return e.cfg.PointerRadius }

// Particles exposes the particle set for snapshots and tests.
func (e *FlowField) Particles() []Particle {
	if e.store == nil {
		return nil
	}
	return e.store.Particles()
}

// Field returns the active flow field.
func (e *FlowField) Field() Field { return e.field }

// Mount implements Effect.
func (e *FlowField) Mount(env Env) error {
	c := e.cfg
	e.field = newFlowSampler(c, env)
	e.store = NewParticleStore(ParticleSpec{
		Count:       particleCount(env.Width, c.Density, c.MaxCount),
		Size:        c.Size,
		Lifetime:    c.Lifetime,
		TrailLength: c.TrailLength,
		Palette:     Palette(c.Palette),
	}, Viewport(env.Width, env.Height), env.Rand)

	in := NewIntegrator(env.Rand)
	in.Force = c.Force
	in.Jitter = c.Jitter
	in.MaxSpeed = c.MaxSpeed
	in.PointerForce = c.PointerForce
	in.Boundary = BoundaryWrap
	in.Margin = c.Margin
	e.integrator = in

	e.renderer = ParticleRenderer{
		Fade:       c.Fade,
		TrailAlpha: c.TrailAlpha,
		GlowRadius: c.Glow,
		GlowRings:  3,
		Hue:        SpeedLifeHue,
	}
	return nil
}

func newFlowSampler(c FlowFieldConfig, env Env) Field {
	switch c.Field {
	case "wave":
		return WaveField{CellSize: c.CellSize}
	case "simplex":
		return NewNoiseField(env.Rand.Int64(), c.NoiseScale, c.NoiseSpeed)
	case "perlin":
		return NewPerlinField(env.Rand.Int64(), c.NoiseScale, c.NoiseSpeed)
	default:
		return NewGridField(env.Width, env.Height, c.CellSize)
	}
}

// particleCount scales the particle count with the viewport width:
// min(max, width/density), and at least one.
func particleCount(width int, density float64, maxCount int) int {
	n := maxCount
	if density > 0 {
		n = int(math.Min(float64(maxCount), float64(width)/density))
	}
	return max(n, 1)
}

// Update implements Effect.
func (e *FlowField) Update(f Frame) {
	e.integrator.StepAll(e.store, e.field, f.Time, f.Pointer)
}

// Draw implements Effect.
func (e *FlowField) Draw(s Surface) {
	e.renderer.Render(s, e.store.Particles())
}

// Resize implements Effect. The field grid and respawn area follow the new
// viewport; particles keep their positions.
func (e *FlowField) Resize(w, h int) {
	if r, ok := e.field.(Resizer); ok {
		r.Resize(w, h)
	}
	e.store.SetBounds(Viewport(w, h))
}

// Unmount implements Effect.
func (e *FlowField) Unmount() {
	e.store = nil
	e.field = nil
	e.integrator = nil
}
