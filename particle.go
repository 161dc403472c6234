package backdrop

// Particle holds the simulation and visual state of one animated point.
type Particle struct {
	Pos     Vec2
	Vel     Vec2
	Size    float64 // disc radius in pixels, fixed at creation
	Color   Color   // palette choice, fixed at creation
	Opacity float64
	Age     int // ticks since the last (re)spawn
	MaxLife int // ticks before respawn; <= 0 means the particle never expires
	Trail   Trail
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 { return p.Vel.Len() }

// LifeRatio returns Age/MaxLife in [0, 1], or 0 for immortal particles.
func (p *Particle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return clamp01(float64(p.Age) / float64(p.MaxLife))
}

// ParticleSpec controls how a ParticleStore randomizes particles at creation.
type ParticleSpec struct {
	// Count is the fixed number of particles. Defaults to 128.
	Count int
	// Size is the range of disc radii in pixels.
	Size Range
	// Opacity is the range of per-particle opacity.
	Opacity Range
	// Lifetime is the range of lifetimes in ticks. A zero range makes
	// particles immortal.
	Lifetime Range
	// Speed is the range of initial velocity components; each axis is drawn
	// independently from [-Speed, Speed]. Zero starts particles at rest.
	Speed Range
	// TrailLength is the trail capacity. Zero disables trails.
	TrailLength int
	// Palette is the set of colors a particle picks from at creation.
	Palette []Color
}

// ParticleStore owns a fixed-size particle collection for one mounted effect.
// It is created once, repopulated element-wise on respawn, and never resized.
type ParticleStore struct {
	spec      ParticleSpec
	particles []Particle
	bounds    Rect
	rng       *Rand
}

// NewParticleStore creates spec.Count particles with randomized attributes
// spread over bounds.
func NewParticleStore(spec ParticleSpec, bounds Rect, rng *Rand) *ParticleStore {
	n := spec.Count
	if n <= 0 {
		n = 128
	}
	s := &ParticleStore{
		spec:      spec,
		particles: make([]Particle, n),
		bounds:    bounds,
		rng:       rng,
	}
	for i := range s.particles {
		s.initParticle(&s.particles[i])
	}
	return s
}

// Len returns the particle count.
func (s *ParticleStore) Len() int { return len(s.particles) }

// Particles returns the backing slice. Callers may mutate elements but must
// not append to or reslice it.
func (s *ParticleStore) Particles() []Particle { return s.particles }

// Bounds returns the current respawn area.
func (s *ParticleStore) Bounds() Rect { return s.bounds }

// SetBounds updates the respawn area after a viewport resize. Existing
// particles keep their positions.
func (s *ParticleStore) SetBounds(b Rect) { s.bounds = b }

// Rand returns the store's random source.
func (s *ParticleStore) Rand() *Rand { return s.rng }

// Respawn resets particle i: new random position, zero velocity, cleared
// trail, age 0. Size, color, opacity, and lifetime are kept.
func (s *ParticleStore) Respawn(i int) {
	respawn(&s.particles[i], s.bounds, s.rng)
}

func (s *ParticleStore) initParticle(p *Particle) {
	p.Pos = randomPoint(s.bounds, s.rng)
	if s.spec.Speed.Max > 0 {
		p.Vel = Vec2{
			X: s.spec.Speed.Rand(s.rng) * signOf(s.rng),
			Y: s.spec.Speed.Rand(s.rng) * signOf(s.rng),
		}
	}
	p.Size = s.spec.Size.Rand(s.rng)
	if p.Size <= 0 {
		p.Size = 1
	}
	p.Opacity = s.spec.Opacity.Rand(s.rng)
	if s.spec.Opacity == (Range{}) {
		p.Opacity = 1
	}
	p.MaxLife = int(s.spec.Lifetime.Rand(s.rng))
	if len(s.spec.Palette) > 0 {
		p.Color = s.spec.Palette[s.rng.IntN(len(s.spec.Palette))]
	} else {
		p.Color = ColorWhite
	}
	p.Trail = NewTrail(s.spec.TrailLength)
}

func respawn(p *Particle, bounds Rect, rng *Rand) {
	p.Pos = randomPoint(bounds, rng)
	p.Vel = Vec2{}
	p.Age = 0
	p.Trail.Reset()
}

func randomPoint(b Rect, rng *Rand) Vec2 {
	return Vec2{
		X: b.X + rng.Float64()*b.Width,
		Y: b.Y + rng.Float64()*b.Height,
	}
}

func signOf(rng *Rand) float64 {
	if rng.Float64() < 0.5 {
		return -1
	}
	return 1
}
