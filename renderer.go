package backdrop

import "math"

// HueFunc picks a particle's trail color for the current frame.
type HueFunc func(p *Particle) Color

// SpeedLifeHue shifts hue with speed and age: 210 + speed*10 + life*40
// degrees at 80% saturation and 60% lightness.
func SpeedLifeHue(p *Particle) Color {
	return HSLA(210+p.Speed()*10+p.LifeRatio()*40, 0.8, 0.6, 1)
}

// PaletteHue returns the particle's fixed palette color.
func PaletteHue(p *Particle) Color {
	return p.Color
}

// ParticleRenderer paints a particle set. Each frame it fades the previous
// content, then draws trails, glowing discs, and optional links.
type ParticleRenderer struct {
	// Fade is composited over the whole surface instead of clearing it.
	// Lower alpha gives longer motion trails; zero clears every frame.
	Fade Color
	// TrailAlpha is the alpha of the newest trail segment.
	TrailAlpha float64
	// GlowRadius is how far the glow extends beyond the disc, in pixels.
	GlowRadius float64
	// GlowRings is the number of falloff rings used to fake the glow.
	GlowRings int
	// LinkDistance enables edges between particles closer than this.
	LinkDistance float64
	// LinkAlpha is the edge alpha at distance 0.
	LinkAlpha float64
	// LinkWidth is the edge stroke width.
	LinkWidth float64
	// Hue colors trails. Defaults to SpeedLifeHue.
	Hue HueFunc
}

// Render draws particles onto s.
func (r *ParticleRenderer) Render(s Surface, particles []Particle) {
	w, h := s.Size()
	if r.Fade.A > 0 {
		s.FillRect(0, 0, float64(w), float64(h), r.Fade)
	} else {
		s.Clear()
	}
	for i := range particles {
		p := &particles[i]
		r.drawTrail(s, p)
		r.drawDisc(s, p)
		if r.LinkDistance > 0 {
			r.drawLinks(s, particles, i)
		}
	}
}

// drawTrail strokes the history oldest to newest; segment i of n has alpha
// i/n*TrailAlpha and width size*i/n, so the newest segment is the most
// opaque and widest.
func (r *ParticleRenderer) drawTrail(s Surface, p *Particle) {
	n := p.Trail.Len()
	if n < 2 || r.TrailAlpha <= 0 {
		return
	}
	hue := r.Hue
	if hue == nil {
		hue = SpeedLifeHue
	}
	c := hue(p)
	prev := p.Trail.At(0)
	for i := 1; i < n; i++ {
		pt := p.Trail.At(i)
		f := float64(i) / float64(n)
		s.StrokeLine(prev.X, prev.Y, pt.X, pt.Y, p.Size*f, c.WithAlpha(f*r.TrailAlpha))
		prev = pt
	}
}

func (r *ParticleRenderer) drawDisc(s Surface, p *Particle) {
	DrawGlow(s, p.Pos.X, p.Pos.Y, p.Size, r.GlowRadius, r.GlowRings, p.Color.WithAlpha(p.Color.A*p.Opacity))
}

// drawLinks connects particle i to every later particle within
// LinkDistance, with alpha falling linearly to zero at the threshold.
func (r *ParticleRenderer) drawLinks(s Surface, particles []Particle, i int) {
	a := &particles[i]
	width := r.LinkWidth
	if width <= 0 {
		width = 0.8
	}
	for j := i + 1; j < len(particles); j++ {
		b := &particles[j]
		d := math.Hypot(a.Pos.X-b.Pos.X, a.Pos.Y-b.Pos.Y)
		if d >= r.LinkDistance {
			continue
		}
		alpha := (1 - d/r.LinkDistance) * r.LinkAlpha
		s.StrokeLine(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y, width, a.Color.WithAlpha(alpha))
	}
}

// DrawGlow draws a disc of radius r with a soft additive halo extending
// glow pixels beyond it. Rings are drawn outermost first with alpha rising
// toward the core.
func DrawGlow(s Surface, x, y, r, glow float64, rings int, c Color) {
	if glow > 0 && rings > 0 {
		for k := rings; k >= 1; k-- {
			f := float64(k) / float64(rings)
			ringAlpha := c.A * (1 - f) * (1 - f) * 0.35
			s.FillCircle(x, y, r+glow*f, c.WithAlpha(ringAlpha), BlendAdd)
		}
	}
	s.FillCircle(x, y, r, c, BlendNormal)
}

// DrawRadial approximates a radial gradient from inner at the center to
// outer at radius r with steps concentric discs.
func DrawRadial(s Surface, x, y, r float64, steps int, inner, outer Color) {
	if steps < 1 {
		steps = 1
	}
	for k := steps; k >= 1; k-- {
		f := float64(k) / float64(steps)
		s.FillCircle(x, y, r*f, inner.Lerp(outer, f), BlendNormal)
	}
}
