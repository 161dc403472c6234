package backdrop

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// constField always points at angle.
type constField float64

func (f constField) Sample(_, _, _ float64) (float64, bool) { return float64(f), true }

// noField never has a value.
type noField struct{}

func (noField) Sample(_, _, _ float64) (float64, bool) { return 0, false }

var testBounds = Rect{Width: 800, Height: 600}

func absentPointer() PointerState {
	return PointerState{X: PointerAbsent, Y: PointerAbsent, Radius: 150}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	rng := NewRand(11)
	in := NewIntegrator(rng)
	in.Force = 5
	in.Jitter = 2
	in.PointerForce = 10
	in.MaxSpeed = 3
	in.Margin = 50

	store := NewParticleStore(ParticleSpec{Count: 200, Lifetime: Range{50, 120}, Speed: Range{0, 10}}, testBounds, rng)
	ptr := PointerState{X: 400, Y: 300, Radius: 200, Present: true}
	field := WaveField{CellSize: 25}
	for tick := 0; tick < 200; tick++ {
		in.StepAll(store, field, float64(tick)*16, ptr)
		for i, p := range store.Particles() {
			if s := p.Speed(); s > in.MaxSpeed+1e-9 {
				t.Fatalf("tick %d particle %d: speed %v > max %v", tick, i, s, in.MaxSpeed)
			}
		}
	}
}

func TestClampPreservesDirection(t *testing.T) {
	in := NewIntegrator(NewRand(1))
	in.MaxSpeed = 2
	in.Boundary = BoundaryNone
	p := Particle{Pos: Vec2{10, 10}, Vel: Vec2{30, 40}}
	in.Step(&p, nil, 0, absentPointer(), testBounds)
	if math.Abs(p.Vel.X-1.2) > 1e-9 || math.Abs(p.Vel.Y-1.6) > 1e-9 {
		t.Errorf("vel = %+v, want (1.2, 1.6)", p.Vel)
	}
	slow := Particle{Vel: Vec2{0.5, 0.5}}
	in.Step(&slow, nil, 0, absentPointer(), testBounds)
	if slow.Vel != (Vec2{0.5, 0.5}) {
		t.Errorf("under-limit velocity changed to %+v", slow.Vel)
	}
}

func TestAgeIncreasesUntilRespawn(t *testing.T) {
	in := NewIntegrator(NewRand(5))
	in.Boundary = BoundaryNone
	p := Particle{Pos: Vec2{1, 1}, MaxLife: 10, Trail: NewTrail(4)}
	prev := p.Age
	for tick := 1; tick <= 10; tick++ {
		if in.Step(&p, nil, 0, absentPointer(), testBounds) {
			t.Fatalf("tick %d: unexpected respawn", tick)
		}
		if p.Age != prev+1 {
			t.Fatalf("tick %d: age = %d, want %d", tick, p.Age, prev+1)
		}
		prev = p.Age
	}
	p.Vel = Vec2{3, 3}
	if !in.Step(&p, nil, 0, absentPointer(), testBounds) {
		t.Fatal("tick 11: expected respawn")
	}
	if p.Age != 0 {
		t.Errorf("age after respawn = %d, want 0", p.Age)
	}
	if p.Vel != (Vec2{}) {
		t.Errorf("velocity after respawn = %+v, want zero", p.Vel)
	}
	if p.Trail.Len() != 0 {
		t.Errorf("trail after respawn = %d points, want 0", p.Trail.Len())
	}
	if !testBounds.Contains(p.Pos.X, p.Pos.Y) {
		t.Errorf("respawn position %+v outside bounds", p.Pos)
	}
}

func TestImmortalParticleNeverRespawns(t *testing.T) {
	in := NewIntegrator(NewRand(5))
	p := Particle{Pos: Vec2{1, 1}}
	for i := 0; i < 1000; i++ {
		if in.Step(&p, nil, 0, absentPointer(), testBounds) {
			t.Fatal("immortal particle respawned")
		}
	}
}

func TestTrailMatchesRecordedPositions(t *testing.T) {
	const n, k = 5, 7
	in := NewIntegrator(NewRand(2))
	in.Boundary = BoundaryNone
	p := Particle{Pos: Vec2{0, 0}, Vel: Vec2{1, 0}, Trail: NewTrail(n)}
	var recorded []Vec2
	for tick := 0; tick < n+k; tick++ {
		in.Step(&p, nil, 0, absentPointer(), testBounds)
		recorded = append(recorded, p.Pos)
	}
	if p.Trail.Len() != n {
		t.Fatalf("trail len = %d, want %d", p.Trail.Len(), n)
	}
	if got, want := p.Trail.At(0), recorded[k]; got != want {
		t.Errorf("oldest = %+v, want %+v", got, want)
	}
	if diff := cmp.Diff(recorded[k:], p.Trail.AppendTo(nil)); diff != "" {
		t.Errorf("trail mismatch (-want +got):\n%s", diff)
	}
}

func TestPointerPush(t *testing.T) {
	in := NewIntegrator(nil)
	in.PointerForce = 0.5
	ptr := PointerState{X: 100, Y: 100, Radius: 150, Present: true}

	tests := []struct {
		name string
		pos  Vec2
		zero bool
	}{
		{"inside right", Vec2{150, 100}, false},
		{"inside diagonal", Vec2{60, 40}, false},
		{"just inside", Vec2{249.9, 100}, false},
		{"on radius", Vec2{250, 100}, true},
		{"outside", Vec2{400, 400}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			push := in.PointerPush(tt.pos, ptr)
			if tt.zero {
				if push != (Vec2{}) {
					t.Errorf("push = %+v, want zero", push)
				}
				return
			}
			away := tt.pos.Sub(Vec2{ptr.X, ptr.Y})
			if dot := push.X*away.X + push.Y*away.Y; dot <= 0 {
				t.Errorf("push %+v is not directed away from the pointer", push)
			}
		})
	}
}

func TestPointerPushLinearFalloff(t *testing.T) {
	in := NewIntegrator(nil)
	in.PointerForce = 0.8
	ptr := PointerState{Radius: 100, Present: true}
	for _, d := range []float64{1, 25, 50, 75, 99} {
		got := in.PointerPush(Vec2{d, 0}, ptr).Len()
		want := 0.8 * (100 - d) / 100
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("d=%v: magnitude %v, want %v", d, got, want)
		}
	}
}

func TestPointerAbsentHasNoEffect(t *testing.T) {
	in := NewIntegrator(nil)
	in.PointerForce = 1
	if push := in.PointerPush(Vec2{PointerAbsent, PointerAbsent}, absentPointer()); push != (Vec2{}) {
		t.Errorf("absent pointer pushed %+v", push)
	}
}

func TestPointerAtParticleUsesDefaultDirection(t *testing.T) {
	in := NewIntegrator(NewRand(1))
	in.PointerForce = 0.5
	in.Boundary = BoundaryNone
	p := Particle{Pos: Vec2{100, 100}}
	ptr := PointerState{X: 100, Y: 100, Radius: 150, Present: true}
	in.Step(&p, nil, 0, ptr, testBounds)

	if math.IsNaN(p.Vel.X) || math.IsNaN(p.Vel.Y) {
		t.Fatalf("velocity is NaN: %+v", p.Vel)
	}
	if p.Speed() == 0 {
		t.Fatal("particle on the pointer received no push")
	}
	want := DefaultRepelDir.Scale(0.5)
	if p.Vel != want {
		t.Errorf("vel = %+v, want %+v", p.Vel, want)
	}
}

func TestWrapBoundary(t *testing.T) {
	in := NewIntegrator(nil)
	in.Boundary = BoundaryWrap
	in.Margin = 50

	tests := []struct {
		name     string
		pos, vel Vec2
		want     Vec2
	}{
		{"past right", Vec2{849, 300}, Vec2{2, 0.5}, Vec2{-50, 300.5}},
		{"past left", Vec2{-49, 200}, Vec2{-2, 0}, Vec2{850, 200}},
		{"past bottom", Vec2{400, 649}, Vec2{0, 2}, Vec2{400, -50}},
		{"past top", Vec2{10, -49}, Vec2{0, -2}, Vec2{10, 650}},
		{"within margin", Vec2{820, 300}, Vec2{2, 0}, Vec2{822, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Pos: tt.pos, Vel: tt.vel}
			in.Step(&p, nil, 0, absentPointer(), testBounds)
			if p.Pos != tt.want {
				t.Errorf("pos = %+v, want %+v", p.Pos, tt.want)
			}
			if p.Vel != tt.vel {
				t.Errorf("vel changed from %+v to %+v", tt.vel, p.Vel)
			}
		})
	}
}

func TestReflectBoundary(t *testing.T) {
	in := NewIntegrator(nil)
	in.Boundary = BoundaryReflect
	in.Damping = 0.9

	p := Particle{Pos: Vec2{799, 300}, Vel: Vec2{5, 1}}
	in.Step(&p, nil, 0, absentPointer(), testBounds)
	if p.Pos.X != 800 {
		t.Errorf("x = %v, want clamped to 800", p.Pos.X)
	}
	if math.Abs(p.Vel.X+4.5) > 1e-12 {
		t.Errorf("vx = %v, want -4.5", p.Vel.X)
	}
	if p.Vel.Y != 1 {
		t.Errorf("vy = %v, want unchanged 1", p.Vel.Y)
	}
}

func TestFieldOutOfRangeSkipsForce(t *testing.T) {
	in := NewIntegrator(NewRand(1))
	in.Force = 1
	in.Jitter = 1
	in.Boundary = BoundaryNone
	p := Particle{Pos: Vec2{10, 10}}
	in.Step(&p, noField{}, 0, absentPointer(), testBounds)
	if p.Vel != (Vec2{}) {
		t.Errorf("vel = %+v, want zero when the field has no value", p.Vel)
	}
	if p.Pos != (Vec2{10, 10}) {
		t.Errorf("pos moved to %+v", p.Pos)
	}
}

func TestFieldForceDirection(t *testing.T) {
	in := NewIntegrator(nil)
	in.Force = 0.3
	in.Boundary = BoundaryNone
	p := Particle{}
	in.Step(&p, constField(math.Pi/2), 0, absentPointer(), testBounds)
	if math.Abs(p.Vel.X) > 1e-12 || math.Abs(p.Vel.Y-0.3) > 1e-12 {
		t.Errorf("vel = %+v, want (0, 0.3)", p.Vel)
	}
}

func TestJitterIsBounded(t *testing.T) {
	in := NewIntegrator(NewRand(9))
	in.Jitter = 0.1
	in.Boundary = BoundaryNone
	for i := 0; i < 500; i++ {
		p := Particle{}
		in.Step(&p, constField(0), 0, absentPointer(), testBounds)
		if math.Abs(p.Vel.X) > 0.05 || math.Abs(p.Vel.Y) > 0.05 {
			t.Fatalf("jitter %+v exceeds half-width 0.05", p.Vel)
		}
	}
}

func TestStepDoesNotAllocate(t *testing.T) {
	rng := NewRand(3)
	in := NewIntegrator(rng)
	in.Force, in.Jitter, in.MaxSpeed, in.Margin = 0.3, 0.1, 3, 50
	store := NewParticleStore(ParticleSpec{Count: 100, Lifetime: Range{5, 10}, TrailLength: 25}, testBounds, rng)
	g := NewGridField(800, 600, 25)
	ptr := PointerState{X: 400, Y: 300, Radius: 150, Present: true}
	allocs := testing.AllocsPerRun(50, func() {
		in.StepAll(store, g, 1000, ptr)
	})
	if allocs != 0 {
		t.Errorf("StepAll allocs = %v, want 0", allocs)
	}
}

func simulateFlow(seed uint64, ticks int) []Vec2 {
	rng := NewRand(seed)
	store := NewParticleStore(ParticleSpec{
		Count:       150,
		Size:        Range{1, 4},
		Lifetime:    Range{200, 300},
		TrailLength: 25,
	}, testBounds, rng)
	in := NewIntegrator(rng)
	in.Force, in.Jitter, in.MaxSpeed = 0.3, 0.1, 3
	in.Boundary, in.Margin = BoundaryWrap, 50
	in.PointerForce = 0.8
	g := NewGridField(800, 600, 25)
	ptr := PointerState{X: 400, Y: 300, Radius: 150, Present: true}
	for tick := 0; tick < ticks; tick++ {
		in.StepAll(store, g, float64(tick)*1000/60, ptr)
	}
	out := make([]Vec2, store.Len())
	for i, p := range store.Particles() {
		out[i] = p.Pos
	}
	return out
}

func TestSeededSimulationIsReproducible(t *testing.T) {
	a := simulateFlow(42, 100)
	b := simulateFlow(42, 100)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed diverged (-first +second):\n%s", diff)
	}
	c := simulateFlow(43, 100)
	if cmp.Equal(a, c, cmpopts.EquateApprox(0, 1e-9)) {
		t.Error("different seeds produced identical particle sets")
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in   string
		want BoundaryPolicy
	}{
		{"wrap", BoundaryWrap},
		{"reflect", BoundaryReflect},
		{"bounce", BoundaryReflect},
		{"none", BoundaryNone},
		{"", BoundaryNone},
	}
	for _, tt := range tests {
		if got := ParseBoundary(tt.in); got != tt.want {
			t.Errorf("ParseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, name := range []string{"", "none", "wrap", "reflect", "bounce"} {
		if !IsBoundary(name) {
			t.Errorf("IsBoundary(%q) = false", name)
		}
	}
	if IsBoundary("reflct") {
		t.Error("IsBoundary accepted a misspelled policy")
	}
	if BoundaryReflect.String() != "reflect" {
		t.Errorf("String = %q", BoundaryReflect.String())
	}
}
