package backdrop

// Constellation drifts glowing points that bounce off the viewport edges and
// links nearby pairs with faint lines. There is no flow field; particles
// keep their initial velocity until a wall or the pointer changes it.
type Constellation struct {
	cfg ConstellationConfig

	store      *ParticleStore
	integrator *Integrator
	renderer   ParticleRenderer
}

// NewConstellation creates an unmounted Constellation.
func NewConstellation(cfg ConstellationConfig) *Constellation {
	return &Constellation{cfg: cfg}
}

// Name implements Effect.
func (e *Constellation) Name() string { return "constellation" }

// PointerRadius implements PointerInfluence.
func (e *Constellation) PointerRadius() float64 { return e.cfg.PointerRadius }

// Particles exposes the particle set for snapshots and tests.
func (e *Constellation) Particles() []Particle {
	if e.store == nil {
		return nil
	}
	return e.store.Particles()
}

// Mount implements Effect.
func (e *Constellation) Mount(env Env) error {
	c := e.cfg
	e.store = NewParticleStore(ParticleSpec{
		Count:   particleCount(env.Width, c.Density, c.MaxCount),
		Size:    c.Size,
		Opacity: c.Opacity,
		Speed:   Range{Min: 0, Max: c.Speed},
		Palette: Palette(c.Palette),
	}, Viewport(env.Width, env.Height), env.Rand)

	in := NewIntegrator(env.Rand)
	in.PointerForce = c.PointerForce
	in.MaxSpeed = c.MaxSpeed
	in.Boundary = ParseBoundary(c.Boundary)
	if c.Damping > 0 {
		in.Damping = c.Damping
	}
	e.integrator = in

	e.renderer = ParticleRenderer{
		Fade:         c.Fade,
		GlowRadius:   c.Glow,
		GlowRings:    3,
		LinkDistance: c.LinkDistance,
		LinkAlpha:    c.LinkAlpha,
		LinkWidth:    c.LinkWidth,
		Hue:          PaletteHue,
	}
	return nil
}

// Update implements Effect.
func (e *Constellation) Update(f Frame) {
	e.integrator.StepAll(e.store, nil, f.Time, f.Pointer)
}

// Draw implements Effect.
func (e *Constellation) Draw(s Surface) {
	e.renderer.Render(s, e.store.Particles())
}

// Resize implements Effect.
func (e *Constellation) Resize(w, h int) {
	e.store.SetBounds(Viewport(w, h))
}

// Unmount implements Effect.
func (e *Constellation) Unmount() {
	e.store = nil
	e.integrator = nil
}
