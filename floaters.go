package backdrop

import "math"

type floater struct {
	pos      Vec2
	size     float64
	speed    float64
	color    Color
	rotation float64
}

// Floaters drifts a few large translucent blob shapes on looping paths.
// Each shape pulses in size, rotates slowly, and wobbles its outline; the
// fill fades radially from the shape color to transparent.
type Floaters struct {
	cfg FloatersConfig

	shapes []floater
	time   float64
	pts    []Vec2
}

// NewFloaters creates an unmounted Floaters effect.
func NewFloaters(cfg FloatersConfig) *Floaters {
	return &Floaters{cfg: cfg}
}

// Name implements Effect.
func (e *Floaters) Name() string { return "floaters" }

// Mount implements Effect.
func (e *Floaters) Mount(env Env) error {
	c := e.cfg
	n := c.Count
	if n <= 0 {
		n = 8
	}
	r := env.Rand
	e.shapes = make([]floater, n)
	for i := range e.shapes {
		e.shapes[i] = floater{
			pos:      randomPoint(Viewport(env.Width, env.Height), r),
			size:     c.Size.Rand(r),
			speed:    c.Speed.Rand(r),
			color:    HSLA(c.Hue.Rand(r), 0.7, 0.6, c.Alpha.Rand(r)),
			rotation: r.Float64() * 2 * math.Pi,
		}
	}
	e.pts = make([]Vec2, 0, max(c.Points, 3))
	e.time = 0
	return nil
}

// Update implements Effect. Motion advances a fixed step per frame.
func (e *Floaters) Update(Frame) {
	e.time += e.cfg.TimeStep
	for i := range e.shapes {
		e.shapes[i].rotation += e.cfg.Spin
	}
}

// Draw implements Effect.
func (e *Floaters) Draw(s Surface) {
	w, h := s.Size()
	if e.cfg.Fade.A > 0 {
		s.FillRect(0, 0, float64(w), float64(h), e.cfg.Fade)
	} else {
		s.Clear()
	}
	steps := max(e.cfg.Steps, 1)
	for i := range e.shapes {
		sh := &e.shapes[i]
		progress := math.Mod(e.time*sh.speed+float64(i)*0.5, 2*math.Pi)
		center := Vec2{
			X: sh.pos.X + math.Sin(progress)*50,
			Y: sh.pos.Y + math.Cos(progress*1.3)*30,
		}
		size := sh.size * (math.Sin(e.time*2+float64(i))*0.2 + 0.8)

		// Soft glow behind the body.
		s.FillCircle(center.X, center.Y, size*1.15, sh.color.WithAlpha(sh.color.A*0.15), BlendAdd)

		ringAlpha := sh.color.A / float64(steps)
		for k := steps; k >= 1; k-- {
			f := float64(k) / float64(steps)
			s.FillPolygon(e.outline(center, size*f, sh.rotation, progress), sh.color.WithAlpha(ringAlpha), BlendNormal)
		}
	}
}

// outline returns the wobbling polygon of one shape.
func (e *Floaters) outline(c Vec2, size, rot, progress float64) []Vec2 {
	n := max(e.cfg.Points, 3)
	e.pts = e.pts[:0]
	for i := 0; i < n; i++ {
		a := float64(i) / float64(n) * 2 * math.Pi
		r := size * (0.8 + math.Sin(progress*4+float64(i))*0.2)
		x, y := math.Cos(a)*r, math.Sin(a)*r
		sin, cos := math.Sincos(rot)
		e.pts = append(e.pts, Vec2{
			X: c.X + x*cos - y*sin,
			Y: c.Y + x*sin + y*cos,
		})
	}
	return e.pts
}

// Resize implements Effect. Shapes keep their anchors.
func (e *Floaters) Resize(int, int) {}

// Unmount implements Effect.
func (e *Floaters) Unmount() {
	e.shapes = nil
}
