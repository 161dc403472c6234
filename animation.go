package backdrop

import (
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update(dt)
// each frame; values are written straight into the target fields.
//
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenFields creates a TweenGroup moving each *fields[i] to to[i]. Extra
// targets beyond four are ignored.
func TweenFields(fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	for i := 0; i < len(fields) && i < len(to) && i < len(g.tweens); i++ {
		g.tweens[i] = gween.New(float32(*fields[i]), float32(to[i]), duration, fn)
		g.fields[i] = fields[i]
		g.count++
	}
	return g
}

// TweenVec creates a TweenGroup animating v toward to.
func TweenVec(v *Vec2, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields([]*float64{&v.X, &v.Y}, []float64{to.X, to.Y}, duration, fn)
}

// --- Timeline ---

// segment is one ".to" step of a timeline for a single property.
type segment struct {
	prop  string
	start float32
	dur   float32
	from  float32
	to    float32
	tween *gween.Tween
}

func (s *segment) end() float32 { return s.start + s.dur }

// valueAt evaluates the segment at absolute timeline time t.
func (s *segment) valueAt(t float32) float32 {
	if s.dur <= 0 {
		return s.to
	}
	v, _ := s.tween.Set(t - s.start)
	return v
}

// Timeline sequences gween tweens over named float properties. Segments
// may overlap; while several segments of a property have started, the most
// recently started one owns the value. A segment starts from whatever value
// the property had at its start time.
type Timeline struct {
	base     map[string]float32
	segments []*segment
	byProp   map[string][]*segment
	duration float32
	cursor   float32 // playhead position within [0, duration]
	elapsed  float32 // total time played
	repeat   int     // -1 repeats forever
	yoyo     bool
	delay    float32
	done     bool
}

// NewTimeline creates a timeline with initial property values.
func NewTimeline(base map[string]float64) *Timeline {
	tl := &Timeline{
		base:   make(map[string]float32, len(base)),
		byProp: make(map[string][]*segment),
	}
	for k, v := range base {
		tl.base[k] = float32(v)
	}
	return tl
}

// Repeat sets the number of extra plays; -1 repeats forever.
func (tl *Timeline) Repeat(n int) *Timeline {
	tl.repeat = n
	return tl
}

// Yoyo makes every other repeat play backwards.
func (tl *Timeline) Yoyo(on bool) *Timeline {
	tl.yoyo = on
	return tl
}

// Delay holds the timeline at its start for d seconds before playing.
func (tl *Timeline) Delay(d float64) *Timeline {
	tl.delay = float32(d)
	return tl
}

// Duration returns the length of one play in seconds.
func (tl *Timeline) Duration() float64 { return float64(tl.duration) }

// End returns the current end of the timeline, the default position of the
// next appended step.
func (tl *Timeline) End() float64 { return float64(tl.duration) }

// To adds a step moving prop to value over dur seconds, starting at the
// absolute position at (seconds).
func (tl *Timeline) To(prop string, value, dur, at float64, fn ease.TweenFunc) *Timeline {
	if fn == nil {
		fn = ease.Linear
	}
	if at < 0 {
		at = 0
	}
	from := tl.valueAt(prop, float32(at))
	s := &segment{
		prop:  prop,
		start: float32(at),
		dur:   float32(dur),
		from:  from,
		to:    float32(value),
	}
	s.tween = gween.New(s.from, s.to, max(s.dur, 1e-6), fn)
	tl.segments = append(tl.segments, s)
	segs := append(tl.byProp[prop], s)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].start < segs[j].start })
	tl.byProp[prop] = segs
	if e := s.end(); e > tl.duration {
		tl.duration = e
	}
	return tl
}

// By adds a step moving prop by delta relative to its value at position at.
func (tl *Timeline) By(prop string, delta, dur, at float64, fn ease.TweenFunc) *Timeline {
	from := tl.valueAt(prop, float32(max(at, 0)))
	return tl.To(prop, float64(from)+delta, dur, at, fn)
}

// Step is one property change inside a ToAll call.
type Step struct {
	Prop  string
	Value float64
}

// ToAll adds several properties sharing a duration, position, and ease, like
// a single GSAP .to call.
func (tl *Timeline) ToAll(steps []Step, dur, at float64, fn ease.TweenFunc) *Timeline {
	for _, s := range steps {
		tl.To(s.Prop, s.Value, dur, at, fn)
	}
	return tl
}

// valueAt evaluates prop at playhead position t.
func (tl *Timeline) valueAt(prop string, t float32) float32 {
	var owner *segment
	for _, s := range tl.byProp[prop] {
		if s.start > t {
			break
		}
		if owner == nil || s.start >= owner.start {
			owner = s
		}
	}
	if owner == nil {
		return tl.base[prop]
	}
	if t >= owner.end() {
		return owner.to
	}
	return owner.valueAt(t)
}

// Update advances the timeline by dt seconds.
func (tl *Timeline) Update(dt float64) {
	if tl.done {
		return
	}
	tl.elapsed += float32(dt)
	t := tl.elapsed - tl.delay
	if t <= 0 {
		tl.cursor = 0
		return
	}
	if tl.duration <= 0 {
		tl.done = true
		return
	}
	cycle := int(math.Floor(float64(t / tl.duration)))
	if tl.repeat >= 0 && cycle > tl.repeat {
		tl.done = true
		tl.cursor = tl.duration
		if tl.yoyo && tl.repeat%2 == 1 {
			tl.cursor = 0
		}
		return
	}
	local := t - float32(cycle)*tl.duration
	if tl.yoyo && cycle%2 == 1 {
		local = tl.duration - local
	}
	tl.cursor = local
}

// Seek places the playhead at t seconds within one play.
func (tl *Timeline) Seek(t float64) {
	tl.cursor = float32(math.Max(0, math.Min(t, float64(tl.duration))))
}

// Value returns the current value of prop.
func (tl *Timeline) Value(prop string) float64 {
	return float64(tl.valueAt(prop, tl.cursor))
}

// Done reports whether a finite timeline has finished playing.
func (tl *Timeline) Done() bool { return tl.done }

// Stagger returns the start offset of element i of n when a step is spread
// with each seconds between elements. A negative each staggers from the
// last element backwards.
func Stagger(i, n int, each float64) float64 {
	if each < 0 {
		return float64(n-1-i) * -each
	}
	return float64(i) * each
}

// StaggerSpan returns the extra duration a stagger adds to a step.
func StaggerSpan(n int, each float64) float64 {
	if n <= 1 {
		return 0
	}
	return float64(n-1) * math.Abs(each)
}
