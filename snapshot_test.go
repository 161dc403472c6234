package backdrop

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func snapshotParticles() []Particle {
	ps := []Particle{
		{Pos: Vec2{10, 20}, Vel: Vec2{3, 4}, Age: 5, MaxLife: 200, Trail: NewTrail(4)},
		{Pos: Vec2{-5, 50}, Vel: Vec2{0, 0}, Age: 1, MaxLife: 300, Trail: NewTrail(4)},
		{Pos: Vec2{100, 100}, Vel: Vec2{0, 1}, Age: 9, Trail: NewTrail(4)},
	}
	ps[0].Trail.Push(Vec2{1, 1})
	ps[0].Trail.Push(Vec2{2, 2})
	return ps
}

func TestSnapshotCSVRoundTrip(t *testing.T) {
	ps := snapshotParticles()
	var buf bytes.Buffer
	if err := WriteSnapshotCSV(&buf, ps); err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != "index,x,y,vx,vy,age,max_life,trail" {
		t.Errorf("header = %q", header)
	}
	got, err := ReadSnapshotCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Records(ps), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got[0].Trail != 2 {
		t.Errorf("trail = %d, want 2", got[0].Trail)
	}
}

func TestReadSnapshotCSVError(t *testing.T) {
	_, err := ReadSnapshotCSV(strings.NewReader("index,x\nnot-a-number,1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSummarize(t *testing.T) {
	ps := snapshotParticles()
	s := Summarize(ps, Rect{Width: 200, Height: 200})
	if s.Count != 3 {
		t.Errorf("count = %d", s.Count)
	}
	// Speeds 5, 0, 1.
	if math.Abs(s.MeanSpeed-2) > 1e-12 {
		t.Errorf("mean speed = %v, want 2", s.MeanSpeed)
	}
	if s.MaxSpeed != 5 {
		t.Errorf("max speed = %v, want 5", s.MaxSpeed)
	}
	// Sample standard deviation of {5, 0, 1}.
	if math.Abs(s.StdSpeed-math.Sqrt(7)) > 1e-12 {
		t.Errorf("sd = %v, want sqrt(7)", s.StdSpeed)
	}
	if math.Abs(s.MeanAge-5) > 1e-12 {
		t.Errorf("mean age = %v, want 5", s.MeanAge)
	}
	if s.Outside != 1 {
		t.Errorf("outside = %d, want 1", s.Outside)
	}
	if !strings.Contains(s.String(), "particles=3") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil, Rect{}); s != (Summary{}) {
		t.Errorf("empty summary = %+v", s)
	}
}
