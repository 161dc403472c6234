package backdrop

import "math"

// Orbits circles a handful of glowing discs around the viewport center on
// concentric orbits. Disc radius swells and shrinks over time.
type Orbits struct {
	cfg  OrbitsConfig
	time float64
}

// NewOrbits creates an unmounted Orbits effect.
func NewOrbits(cfg OrbitsConfig) *Orbits {
	return &Orbits{cfg: cfg}
}

// Name implements Effect.
func (e *Orbits) Name() string { return "orbits" }

// Mount implements Effect.
func (e *Orbits) Mount(Env) error {
	e.time = 0
	return nil
}

// Update implements Effect.
func (e *Orbits) Update(Frame) {
	e.time += e.cfg.TimeStep
}

// Disc returns the center and radius of disc i at the current time for a
// w x h viewport.
func (e *Orbits) Disc(i, w, h int) (Vec2, float64) {
	fi := float64(i)
	orbit := e.cfg.Radius + fi*e.cfg.Spacing
	angle := e.time*0.5 + fi*0.5
	c := Vec2{
		X: float64(w)/2 + math.Cos(angle)*orbit,
		Y: float64(h)/2 + math.Sin(angle)*orbit,
	}
	return c, e.cfg.Size + math.Sin(e.time+fi)*e.cfg.Swell
}

// Draw implements Effect.
func (e *Orbits) Draw(s Surface) {
	w, h := s.Size()
	if e.cfg.Fade.A > 0 {
		s.FillRect(0, 0, float64(w), float64(h), e.cfg.Fade)
	} else {
		s.Clear()
	}
	for i := 0; i < e.cfg.Count; i++ {
		c, r := e.Disc(i, w, h)
		clr := HSLA(e.cfg.HueStart+float64(i)*e.cfg.HueStep, 0.7, 0.6, 0.6)
		DrawGlow(s, c.X, c.Y, r, e.cfg.Glow, 3, clr)
	}
}

// Resize implements Effect. Orbits are centered from the surface size on
// every draw.
func (e *Orbits) Resize(int, int) {}

// Unmount implements Effect.
func (e *Orbits) Unmount() {}
