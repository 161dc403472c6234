package backdrop

import (
	"math"
	"strconv"

	"github.com/tanema/gween/ease"
)

// blobPoints is the outline resolution of a blob.
const blobPoints = 24

type blob struct {
	base  Vec2
	size  float64
	phase float64

	inner, outer     Color
	innerTo, outerTo Color

	morph   *Timeline // x, y, rotation, scale, shape
	tint    *Timeline // color: 0 = start colors, 1 = target colors
	opacity *Timeline

	nudge      Vec2
	nudgeTween *TweenGroup
}

// Blobs floats soft, morphing color blobs. Every blob runs its own
// repeating yoyo timelines for motion, shape, color and opacity, a shared
// master timeline drifts them all with staggered starts, and pointer moves
// nudge them toward the pointer side.
type Blobs struct {
	cfg BlobsConfig

	blobs   []blob
	master  *Timeline
	xs, ys  []string
	w, h    int
	lastSeq uint64
	outline []Vec2
}

// NewBlobs creates an unmounted Blobs effect.
func NewBlobs(cfg BlobsConfig) *Blobs {
	return &Blobs{cfg: cfg}
}

// Name implements Effect.
func (e *Blobs) Name() string { return "blobs" }

// Mount implements Effect.
func (e *Blobs) Mount(env Env) error {
	c := e.cfg
	n := c.Count
	if n <= 0 {
		n = 15
	}
	r := env.Rand
	e.w, e.h = env.Width, env.Height
	e.blobs = make([]blob, n)
	e.xs = make([]string, n)
	e.ys = make([]string, n)
	e.outline = make([]Vec2, 0, blobPoints)

	base := map[string]float64{}
	for i := range e.blobs {
		b := &e.blobs[i]
		b.base = Vec2{r.Float64() * float64(e.w), r.Float64() * float64(e.h)}
		b.size = c.Size.Rand(r)
		b.phase = r.Float64() * 2 * math.Pi
		b.inner = HSLA(210+r.Float64()*60, 0.7, 0.6, 1)
		b.outer = HSLA(240+r.Float64()*40, 0.8, 0.5, 1)
		b.innerTo = HSLA(270+r.Float64()*60, 0.8, 0.6, 1)
		b.outerTo = HSLA(200+r.Float64()*40, 0.7, 0.5, 1)
		b.morph = newBlobTimeline(r)
		b.tint = NewTimeline(nil).
			To("color", 1, 5+r.Float64()*5, 0, ease.InOutSine).
			Repeat(-1).Yoyo(true)
		b.opacity = NewTimeline(map[string]float64{"opacity": c.Opacity}).
			To("opacity", 0.1+r.Float64()*0.4, 2+r.Float64()*3, 0, ease.InOutSine).
			Repeat(-1).Yoyo(true)

		e.xs[i] = "x" + strconv.Itoa(i)
		e.ys[i] = "y" + strconv.Itoa(i)
		base[e.xs[i]] = 0
		base[e.ys[i]] = 0
	}
	e.master = e.newMasterTimeline(base)
	e.lastSeq = 0
	return nil
}

// newBlobTimeline builds the three overlapping morph steps of one blob.
func newBlobTimeline(r *Rand) *Timeline {
	tl := NewTimeline(map[string]float64{"scale": 1})
	d1 := 3 + r.Float64()*4
	tl.ToAll([]Step{
		{"x", uniform(r, -100, 100)},
		{"y", uniform(r, -100, 100)},
		{"rotation", 360},
		{"scale", 0.5 + r.Float64()*1.5},
		{"shape", 1},
	}, d1, 0, ease.InOutSine)

	d2 := 2 + r.Float64()*3
	tl.ToAll([]Step{
		{"shape", 2},
		{"rotation", -360},
		{"scale", 0.3 + r.Float64()*1.2},
	}, d2, tl.End()-2, ease.InOutQuad)

	d3 := 4 + r.Float64()*2
	tl.ToAll([]Step{
		{"x", uniform(r, -150, 150)},
		{"y", uniform(r, -150, 150)},
		{"shape", 0},
		{"rotation", 180},
		{"scale", 1 + r.Float64()},
	}, d3, tl.End()-3, ease.OutBack)

	return tl.Repeat(-1).Yoyo(true)
}

// newMasterTimeline builds the staggered group drift shared by all blobs.
func (e *Blobs) newMasterTimeline(base map[string]float64) *Timeline {
	tl := NewTimeline(base)
	n := len(e.blobs)
	steps := []struct {
		dx, dy, dur, each float64
		fn                ease.TweenFunc
	}{
		{50, -30, 8, 0.1, ease.InOutSine},
		{-70, 40, 6, -0.1, ease.InOutQuad},
		{20, -60, 10, 0.05, ease.InOutSine},
	}
	for _, s := range steps {
		at := tl.End()
		for i := 0; i < n; i++ {
			off := at + Stagger(i, n, s.each)
			tl.By(e.xs[i], s.dx, s.dur, off, s.fn)
			tl.By(e.ys[i], s.dy, s.dur, off, s.fn)
		}
	}
	return tl.Repeat(-1).Yoyo(true)
}

func uniform(r *Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Update implements Effect.
func (e *Blobs) Update(f Frame) {
	dt := f.Delta / 1000
	e.w, e.h = f.Width, f.Height
	e.master.Update(dt)

	moved := f.Pointer.Present && f.Pointer.Seq != e.lastSeq
	e.lastSeq = f.Pointer.Seq
	var mx, my float64
	if moved && e.w > 0 && e.h > 0 {
		mx = f.Pointer.X/float64(e.w)*2 - 1
		my = f.Pointer.Y/float64(e.h)*2 - 1
	}

	limit := e.cfg.Nudge * 3
	for i := range e.blobs {
		b := &e.blobs[i]
		b.morph.Update(dt)
		b.tint.Update(dt)
		b.opacity.Update(dt)
		if moved {
			to := Vec2{
				X: math.Max(-limit, math.Min(limit, b.nudge.X+mx*e.cfg.Nudge)),
				Y: math.Max(-limit, math.Min(limit, b.nudge.Y+my*e.cfg.Nudge)),
			}
			// A new nudge replaces one still in flight.
			if e.cfg.NudgeTime > 0 {
				b.nudgeTween = TweenVec(&b.nudge, to, float32(e.cfg.NudgeTime), ease.Linear)
			} else {
				b.nudge, b.nudgeTween = to, nil
			}
		}
		if b.nudgeTween != nil {
			b.nudgeTween.Update(float32(dt))
			if b.nudgeTween.Done {
				b.nudgeTween = nil
			}
		}
	}
}

// Position returns the current center of blob i.
func (e *Blobs) Position(i int) Vec2 {
	b := &e.blobs[i]
	return Vec2{
		X: b.base.X + b.morph.Value("x") + e.master.Value(e.xs[i]) + b.nudge.X,
		Y: b.base.Y + b.morph.Value("y") + e.master.Value(e.ys[i]) + b.nudge.Y,
	}
}

// Len returns the number of blobs.
func (e *Blobs) Len() int { return len(e.blobs) }

// Draw implements Effect.
func (e *Blobs) Draw(s Surface) {
	if e.cfg.Fade.A > 0 {
		w, h := s.Size()
		s.FillRect(0, 0, float64(w), float64(h), e.cfg.Fade)
	} else {
		s.Clear()
	}
	steps := max(e.cfg.Steps, 1)
	for i := range e.blobs {
		b := &e.blobs[i]
		pos := e.Position(i)
		radius := b.size / 2 * math.Max(b.morph.Value("scale"), 0.05)
		rot := b.morph.Value("rotation") * math.Pi / 180
		shape := b.morph.Value("shape")
		t := clamp01(b.tint.Value("color"))
		inner := b.inner.Lerp(b.innerTo, t)
		outer := b.outer.Lerp(b.outerTo, t)
		opacity := clamp01(b.opacity.Value("opacity"))

		// Each ring adds the same alpha so the center reaches opacity.
		ringAlpha := 1 - math.Pow(1-opacity, 1/float64(steps+1))
		if e.cfg.Blur > 0 {
			halo := e.blobOutline(pos, radius+e.cfg.Blur, rot, shape, b.phase)
			s.FillPolygon(halo, outer.WithAlpha(ringAlpha*0.5), BlendNormal)
		}
		for k := steps; k >= 0; k-- {
			f := float64(k) / float64(steps)
			pts := e.blobOutline(pos, radius*math.Max(f, 0.15), rot, shape, b.phase)
			s.FillPolygon(pts, inner.Lerp(outer, f).WithAlpha(ringAlpha), BlendNormal)
		}
	}
}

// blobOutline returns the blob polygon. shape 0 is a circle, 1 a three-lobed
// blob, 2 a two-lobed blob; values in between blend.
func (e *Blobs) blobOutline(c Vec2, r, rot, shape, phase float64) []Vec2 {
	lobes3 := 0.2 * clamp01(shape)
	lobes2 := 0.15 * clamp01(shape-1)
	e.outline = e.outline[:0]
	for i := 0; i < blobPoints; i++ {
		a := float64(i) / blobPoints * 2 * math.Pi
		k := 1 + lobes3*math.Sin(3*a+phase) + lobes2*math.Sin(2*a+phase*0.5)
		e.outline = append(e.outline, Vec2{
			X: c.X + math.Cos(a+rot)*r*k,
			Y: c.Y + math.Sin(a+rot)*r*k,
		})
	}
	return e.outline
}

// Resize implements Effect. Blob anchors are scaled with the viewport.
func (e *Blobs) Resize(w, h int) {
	if e.w > 0 && e.h > 0 {
		sx, sy := float64(w)/float64(e.w), float64(h)/float64(e.h)
		for i := range e.blobs {
			e.blobs[i].base.X *= sx
			e.blobs[i].base.Y *= sy
		}
	}
	e.w, e.h = w, h
}

// Unmount implements Effect.
func (e *Blobs) Unmount() {
	e.blobs = nil
	e.master = nil
}
