package backdrop

import (
	"errors"
	"testing"
)

// stubEffect records lifecycle calls.
type stubEffect struct {
	radius   float64
	mountErr error
	panics   bool

	mounts, updates, draws, unmounts int
	resized                          [][2]int
	frames                           []Frame
	env                              Env
}

func (e *stubEffect) Name() string           { return "stub" }
func (e *stubEffect) PointerRadius() float64 { return e.radius }

func (e *stubEffect) Mount(env Env) error {
	if e.panics {
		panic("boom")
	}
	e.mounts++
	e.env = env
	return e.mountErr
}

func (e *stubEffect) Update(f Frame) {
	e.updates++
	e.frames = append(e.frames, f)
}

func (e *stubEffect) Draw(s Surface) {
	e.draws++
	s.FillRect(0, 0, 1, 1, ColorWhite)
}

func (e *stubEffect) Resize(w, h int) { e.resized = append(e.resized, [2]int{w, h}) }
func (e *stubEffect) Unmount()        { e.unmounts++ }

func TestLayerMountStartsLoop(t *testing.T) {
	host := NewHeadlessHost(320, 200)
	fx := &stubEffect{radius: 100}
	l := NewLayer(fx, WithSeed(5))
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	if !l.Mounted() || fx.mounts != 1 {
		t.Fatalf("mounted=%v mounts=%d", l.Mounted(), fx.mounts)
	}
	if fx.env.Width != 320 || fx.env.Height != 200 || fx.env.Rand.Seed() != 5 {
		t.Errorf("env = %dx%d seed %d", fx.env.Width, fx.env.Height, fx.env.Rand.Seed())
	}
	if host.Subscribers() != 3 {
		t.Errorf("subscribers = %d, want 3", host.Subscribers())
	}

	host.Advance(10, 16)
	if fx.updates != 10 || fx.draws != 10 || l.Frames() != 10 {
		t.Errorf("updates=%d draws=%d frames=%d, want 10", fx.updates, fx.draws, l.Frames())
	}
	if host.Queue().Pending() != 1 {
		t.Errorf("pending = %d, want 1", host.Queue().Pending())
	}
	if err := l.Mount(host); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Mount err = %v, want ErrAlreadyMounted", err)
	}
}

func TestLayerFrameTiming(t *testing.T) {
	host := NewHeadlessHost(100, 100)
	fx := &stubEffect{}
	l := NewLayer(fx)
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Advance(3, 20)
	for i, f := range fx.frames {
		if f.Tick != uint64(i+1) {
			t.Errorf("frame %d tick = %d", i, f.Tick)
		}
		if f.Time != float64(i)*20 {
			t.Errorf("frame %d time = %v, want %v", i, f.Time, float64(i)*20)
		}
		wantDelta := 20.0
		if i == 0 {
			wantDelta = 0
		}
		if f.Delta != wantDelta {
			t.Errorf("frame %d delta = %v, want %v", i, f.Delta, wantDelta)
		}
		if f.Width != 100 || f.Height != 100 {
			t.Errorf("frame %d size = %dx%d", i, f.Width, f.Height)
		}
	}
}

func TestLayerUnmountStopsRendering(t *testing.T) {
	host := NewHeadlessHost(320, 200)
	fx := &stubEffect{}
	l := NewLayer(fx)
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Advance(5, 16)
	surface := host.Surfaces()[0]
	drawn := surface.Stats().Total()

	l.Unmount()
	host.Advance(50, 16)

	if fx.draws != 5 {
		t.Errorf("draws = %d after teardown, want 5", fx.draws)
	}
	if surface.Stats().Total() != drawn {
		t.Errorf("surface ops grew from %d to %d after teardown", drawn, surface.Stats().Total())
	}
	if host.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", host.Subscribers())
	}
	if host.Queue().Pending() != 0 {
		t.Errorf("pending = %d, want 0", host.Queue().Pending())
	}
	if !surface.Released() || l.Surface() != nil {
		t.Error("surface not released")
	}
	if fx.unmounts != 1 {
		t.Errorf("unmounts = %d, want 1", fx.unmounts)
	}
	l.Unmount()
	if fx.unmounts != 1 {
		t.Error("second Unmount reached the effect")
	}
}

func TestLayerUnmountInsideFrame(t *testing.T) {
	host := NewHeadlessHost(50, 50)
	fx := &stubEffect{}
	l := NewLayer(fx)
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Queue().RequestFrame(func(float64) { l.Unmount() })
	host.Advance(1, 16)
	host.Advance(5, 16)
	if fx.draws > 1 {
		t.Errorf("draws = %d, want at most 1", fx.draws)
	}
	if host.Queue().Pending() != 0 {
		t.Errorf("pending = %d, want 0", host.Queue().Pending())
	}
}

func TestLayerSurfaceFailureRendersNothing(t *testing.T) {
	host := NewHeadlessHost(320, 200)
	host.FailSurface = true
	fx := &stubEffect{}
	l := NewLayer(fx)

	err := l.Mount(host)
	if !errors.Is(err, ErrSurfaceUnavailable) {
		t.Fatalf("err = %v, want ErrSurfaceUnavailable", err)
	}
	if l.Mounted() || fx.mounts != 0 {
		t.Error("layer mounted despite surface failure")
	}
	if host.Subscribers() != 0 || host.Queue().Pending() != 0 {
		t.Errorf("leaked %d subscribers and %d frames", host.Subscribers(), host.Queue().Pending())
	}
	host.Advance(10, 16)
	if fx.draws != 0 {
		t.Errorf("draws = %d, want 0", fx.draws)
	}
}

func TestLayerEffectMountFailureReleases(t *testing.T) {
	tests := []struct {
		name string
		fx   *stubEffect
	}{
		{"error", &stubEffect{mountErr: errors.New("no context")}},
		{"panic", &stubEffect{panics: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := NewHeadlessHost(100, 100)
			l := NewLayer(tt.fx)
			if err := l.Mount(host); err == nil {
				t.Fatal("expected error")
			}
			if l.Mounted() {
				t.Error("layer reports mounted")
			}
			if host.Subscribers() != 0 {
				t.Errorf("leaked %d subscribers", host.Subscribers())
			}
			if host.Queue().Pending() != 0 {
				t.Errorf("leaked %d frame callbacks", host.Queue().Pending())
			}
			if s := host.Surfaces(); len(s) != 1 || !s[0].Released() {
				t.Error("surface not released after partial mount")
			}
			host.Advance(5, 16)
			if tt.fx.draws != 0 {
				t.Errorf("draws = %d, want 0", tt.fx.draws)
			}
		})
	}
}

// leavePanicHost fails while the layer is subscribing to input.
type leavePanicHost struct {
	*HeadlessHost
}

func (h leavePanicHost) OnPointerLeave(func()) CallbackHandle {
	panic("subscribe failed")
}

func TestLayerSubscribeFailureReleasesListeners(t *testing.T) {
	host := NewHeadlessHost(100, 100)
	fx := &stubEffect{}
	l := NewLayer(fx)

	if err := l.Mount(leavePanicHost{host}); err == nil {
		t.Fatal("expected error")
	}
	if l.Mounted() || fx.mounts != 0 {
		t.Error("layer mounted despite failed subscription")
	}
	if host.Subscribers() != 0 {
		t.Errorf("leaked %d subscribers", host.Subscribers())
	}
	if s := host.Surfaces(); len(s) != 1 || !s[0].Released() {
		t.Error("surface not released after partial mount")
	}
	host.EmitPointerMove(10, 10)
	host.Advance(3, 16)
	if fx.draws != 0 {
		t.Errorf("draws = %d, want 0", fx.draws)
	}
}

func TestLayerPointerIsVisibleNextFrame(t *testing.T) {
	host := NewHeadlessHost(200, 200)
	fx := &stubEffect{radius: 75}
	l := NewLayer(fx)
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Advance(1, 16)
	host.EmitPointerMove(50, 60)
	host.Advance(1, 16)
	host.EmitPointerLeave()
	host.Advance(1, 16)

	if fx.frames[0].Pointer.Present {
		t.Error("frame 1 should see no pointer")
	}
	p := fx.frames[1].Pointer
	if !p.Present || p.X != 50 || p.Y != 60 || p.Radius != 75 {
		t.Errorf("frame 2 pointer = %+v", p)
	}
	if fx.frames[2].Pointer.Present {
		t.Error("frame 3 should see the pointer gone")
	}
}

func TestLayerResizeKeepsState(t *testing.T) {
	host := NewHeadlessHost(200, 100)
	fx := &stubEffect{}
	l := NewLayer(fx)
	if err := l.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Advance(3, 16)
	host.Resize(400, 300)
	host.Advance(1, 16)

	if len(fx.resized) != 1 || fx.resized[0] != [2]int{400, 300} {
		t.Errorf("resized = %v", fx.resized)
	}
	if w, h := l.Surface().Size(); w != 400 || h != 300 {
		t.Errorf("surface = %dx%d, want 400x300", w, h)
	}
	if fx.mounts != 1 {
		t.Errorf("resize remounted the effect")
	}
	last := fx.frames[len(fx.frames)-1]
	if last.Tick != 4 || last.Width != 400 {
		t.Errorf("frame after resize = %+v", last)
	}
}

func TestLayersAreIndependent(t *testing.T) {
	host := NewHeadlessHost(100, 100)
	a, b := &stubEffect{}, &stubEffect{}
	la, lb := NewLayer(a), NewLayer(b)
	if err := la.Mount(host); err != nil {
		t.Fatal(err)
	}
	if err := lb.Mount(host); err != nil {
		t.Fatal(err)
	}
	host.Advance(2, 16)
	la.Unmount()
	host.Advance(3, 16)
	if a.draws != 2 || b.draws != 5 {
		t.Errorf("draws a=%d b=%d, want 2 and 5", a.draws, b.draws)
	}
	if host.Subscribers() != 3 {
		t.Errorf("subscribers = %d, want 3", host.Subscribers())
	}
}
