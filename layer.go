package backdrop

import (
	"fmt"

	"go.uber.org/zap"
)

// Frame is the per-tick input handed to an Effect.
type Frame struct {
	// Tick counts frames since mount, starting at 1.
	Tick uint64
	// Time is milliseconds since the first frame.
	Time float64
	// Delta is milliseconds since the previous frame.
	Delta float64
	// Pointer is the pointer state as of the start of this frame.
	Pointer PointerState
	// Width and Height are the current surface size.
	Width, Height int
}

// Env is what an Effect receives when mounted.
type Env struct {
	Width, Height int
	Rand          *Rand
	Surface       Surface
	Logger        *zap.Logger
}

// Effect is one animated background. Mount allocates state sized to the
// viewport; Update advances the simulation; Draw paints the surface.
type Effect interface {
	Name() string
	Mount(env Env) error
	Update(f Frame)
	Draw(s Surface)
	Resize(w, h int)
	Unmount()
}

// PointerInfluence is implemented by effects that react to the pointer.
// The returned radius configures the layer's pointer cell.
type PointerInfluence interface {
	PointerRadius() float64
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithLogger sets the layer's logger. The default discards everything.
func WithLogger(l *zap.Logger) LayerOption {
	return func(ly *Layer) {
		if l != nil {
			ly.log = l
		}
	}
}

// WithSeed fixes the layer's random seed. Zero seeds from entropy.
func WithSeed(seed uint64) LayerOption {
	return func(ly *Layer) { ly.seed = seed }
}

// WithDebug enables per-frame timing stats, logged at debug level.
func WithDebug(enabled bool) LayerOption {
	return func(ly *Layer) { ly.debug = enabled }
}

// Layer is the lifecycle controller for one effect: it acquires a surface,
// subscribes to host events, drives the frame loop, and releases everything
// on Unmount.
type Layer struct {
	effect  Effect
	log     *zap.Logger
	seed    uint64
	debug   bool
	pointer *Pointer

	host      Host
	sched     Scheduler
	surface   Surface
	subs      []CallbackHandle
	frameID   FrameID
	mounted   bool
	tick      uint64
	startTime float64
	lastTime  float64
	frames    uint64
	stats     frameStats
}

// NewLayer creates an unmounted layer for effect.
func NewLayer(effect Effect, opts ...LayerOption) *Layer {
	l := &Layer{
		effect: effect,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	radius := 0.0
	if pi, ok := effect.(PointerInfluence); ok {
		radius = pi.PointerRadius()
	}
	l.pointer = NewPointer(radius)
	return l
}

// Effect returns the layer's effect.
func (l *Layer) Effect() Effect { return l.effect }

// Surface returns the mounted surface, or nil.
func (l *Layer) Surface() Surface { return l.surface }

// Mounted reports whether the layer is mounted.
func (l *Layer) Mounted() bool { return l.mounted }

// Frames returns how many frames have been drawn since the layer was created.
func (l *Layer) Frames() uint64 { return l.frames }

// Pointer returns the current pointer state.
func (l *Layer) Pointer() PointerState { return l.pointer.State() }

// Mount acquires a surface sized to the host viewport, subscribes to input,
// mounts the effect, and starts the frame loop. On any failure everything
// acquired so far is released and the layer stays unmounted.
func (l *Layer) Mount(host Host) (err error) {
	if l.mounted {
		return ErrAlreadyMounted
	}
	name := l.effect.Name()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mount %s: %v", name, r)
		}
		if err != nil {
			l.release()
			l.log.Warn("layer setup failed; drawing nothing",
				zap.String("effect", name), zap.Error(err))
		}
	}()

	l.host = host
	l.sched = host.Scheduler()
	w, h := host.ViewportSize()

	surface, err := host.NewSurface(w, h)
	if err != nil {
		return fmt.Errorf("mount %s: %w: %w", name, ErrSurfaceUnavailable, err)
	}
	if surface == nil {
		return fmt.Errorf("mount %s: %w", name, ErrSurfaceUnavailable)
	}
	l.surface = surface

	// Store each handle as soon as it exists so release can undo a
	// subscription that later panics.
	l.subs = append(l.subs, host.OnPointerMove(l.pointer.Move))
	l.subs = append(l.subs, host.OnPointerLeave(l.pointer.Leave))
	l.subs = append(l.subs, host.OnResize(l.resize))

	rng := NewRand(l.seed)
	if err := l.effect.Mount(Env{Width: w, Height: h, Rand: rng, Surface: surface, Logger: l.log}); err != nil {
		return fmt.Errorf("mount %s: %w", name, err)
	}

	l.mounted = true
	l.tick = 0
	l.frameID = l.sched.RequestFrame(l.frame)
	l.log.Debug("layer mounted",
		zap.String("effect", name), zap.Int("width", w), zap.Int("height", h),
		zap.Uint64("seed", rng.Seed()))
	return nil
}

// Unmount stops the frame loop, removes every subscription, unmounts the
// effect, and releases the surface. Calling it on an unmounted layer is a
// no-op.
func (l *Layer) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	l.effect.Unmount()
	l.release()
	l.log.Debug("layer unmounted", zap.String("effect", l.effect.Name()), zap.Uint64("frames", l.frames))
}

// release undoes whatever part of Mount has happened.
func (l *Layer) release() {
	if l.sched != nil && l.frameID != 0 {
		l.sched.CancelFrame(l.frameID)
	}
	l.frameID = 0
	for _, h := range l.subs {
		h.Remove()
	}
	l.subs = l.subs[:0]
	if l.surface != nil {
		l.surface.Release()
		l.surface = nil
	}
	l.pointer.Leave()
	l.mounted = false
}

func (l *Layer) resize(w, h int) {
	if !l.mounted {
		return
	}
	l.surface.Resize(w, h)
	l.effect.Resize(w, h)
}

// frame is the self-rescheduling callback: integrate, render, request next.
func (l *Layer) frame(now float64) {
	l.frameID = 0
	if !l.mounted {
		return
	}
	l.tick++
	if l.tick == 1 {
		l.startTime = now
		l.lastTime = now
	}
	w, h := l.surface.Size()
	f := Frame{
		Tick:    l.tick,
		Time:    now - l.startTime,
		Delta:   now - l.lastTime,
		Pointer: l.pointer.State(),
		Width:   w,
		Height:  h,
	}
	l.lastTime = now

	if l.debug {
		l.timedFrame(f)
	} else {
		l.effect.Update(f)
		l.effect.Draw(l.surface)
	}
	l.frames++

	if l.mounted {
		l.frameID = l.sched.RequestFrame(l.frame)
	}
}
