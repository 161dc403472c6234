package backdrop

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageIsHost(t *testing.T) {
	var _ Host = (*Stage)(nil)
	s := NewStage(320, 240, nil)
	if w, h := s.ViewportSize(); w != 320 || h != 240 {
		t.Errorf("viewport = %dx%d", w, h)
	}
	if _, err := s.NewSurface(0, 10); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("zero-size surface err = %v", err)
	}
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", s.ScreenshotDir)
	}
}

func TestStageInjectMoveAndLeave(t *testing.T) {
	s := NewStage(100, 100, nil)
	var moves [][2]float64
	leaves := 0
	s.OnPointerMove(func(x, y float64) { moves = append(moves, [2]float64{x, y}) })
	s.OnPointerLeave(func() { leaves++ })

	s.InjectMove(10, 20)
	s.InjectLeave()
	if s.Injected() != 2 {
		t.Fatalf("queued = %d, want 2", s.Injected())
	}

	// One event per frame.
	if !s.processInjected() || len(moves) != 1 || leaves != 0 {
		t.Fatalf("frame 1: moves=%v leaves=%d", moves, leaves)
	}
	if !s.processInjected() || leaves != 1 {
		t.Fatalf("frame 2: leaves=%d", leaves)
	}
	if s.processInjected() {
		t.Error("empty queue reported an event")
	}
	if moves[0] != [2]float64{10, 20} {
		t.Errorf("move = %v", moves[0])
	}
}

func TestStageInjectSweep(t *testing.T) {
	s := NewStage(100, 100, nil)
	var xs []float64
	s.OnPointerMove(func(x, _ float64) { xs = append(xs, x) })
	s.InjectSweep(0, 50, 100, 50, 5)
	for s.processInjected() {
	}
	want := []float64{0, 25, 50, 75, 100}
	if len(xs) != len(want) {
		t.Fatalf("moves = %v, want %v", xs, want)
	}
	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, xs[i], want[i])
		}
	}

	s.InjectSweep(0, 0, 10, 10, 1)
	if s.Injected() != 2 {
		t.Errorf("minimum sweep queued %d moves, want 2", s.Injected())
	}
}

func TestStageInjectResize(t *testing.T) {
	s := NewStage(200, 100, nil)
	var got [2]int
	s.OnResize(func(w, h int) { got = [2]int{w, h} })

	s.InjectResize(640, 480)
	s.InjectResize(0, 10)
	s.processInjected()
	if got != [2]int{640, 480} {
		t.Errorf("resize = %v", got)
	}
	if w, h := s.ViewportSize(); w != 640 || h != 480 {
		t.Errorf("viewport = %dx%d", w, h)
	}
	s.processInjected()
	if w, _ := s.ViewportSize(); w != 640 {
		t.Error("invalid resize was applied")
	}
}

func TestStageUnmount(t *testing.T) {
	s := NewStage(64, 64, nil)
	a, b := NewLayer(&stubEffect{}), NewLayer(&stubEffect{})
	// Unmounting a layer that never mounted is a no-op.
	s.layers = append(s.layers, a, b)
	s.Unmount(a)
	if len(s.Layers()) != 1 || s.Layers()[0] != b {
		t.Errorf("layers = %v", s.Layers())
	}
	s.UnmountAll()
	if len(s.Layers()) != 0 {
		t.Errorf("layers after UnmountAll = %d", len(s.Layers()))
	}
}

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"valid", `{"steps":[{"action":"move","x":1,"y":2},{"action":"wait","frames":3},{"action":"screenshot","label":"a"}]}`, ""},
		{"empty", `{"steps":[]}`, "no steps"},
		{"unknown", `{"steps":[{"action":"click"}]}`, "unknown action"},
		{"malformed", `{"steps":`, "parse script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := LoadScript([]byte(tt.json))
			if tt.wantErr == "" {
				if err != nil || sc == nil {
					t.Fatalf("err = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestScriptSequencing(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps":[
		{"action":"move","x":5,"y":6},
		{"action":"wait","frames":3},
		{"action":"sweep","x":0,"y":0,"toX":30,"toY":0,"frames":4},
		{"action":"screenshot","label":"end"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := NewStage(100, 100, nil)
	moves := 0
	s.OnPointerMove(func(float64, float64) { moves++ })

	frames := 0
	for !sc.Done() && frames < 100 {
		sc.step(s)
		s.processInjected()
		frames++
	}
	if !sc.Done() {
		t.Fatal("script never finished")
	}
	if moves != 5 {
		t.Errorf("moves = %d, want 5", moves)
	}
	if len(s.shotQueue) != 1 || s.shotQueue[0] != "end" {
		t.Errorf("screenshots = %v", s.shotQueue)
	}
	// move(1) + wait(3) + sweep drain(4) + screenshot(1).
	if frames < 9 {
		t.Errorf("finished after %d frames, expected at least 9", frames)
	}
	sc.step(s)
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-sweep", "after-sweep"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	s := NewStage(10, 10, nil)
	s.Screenshot("a")
	s.Screenshot("b")
	if len(s.shotQueue) != 2 || s.shotQueue[0] != "a" || s.shotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", s.shotQueue)
	}
}

func TestUnpremultiplyAndWritePNG(t *testing.T) {
	// One opaque red pixel and one half-transparent premultiplied white.
	pixels := []byte{255, 0, 0, 255, 128, 128, 128, 128}
	img := unpremultiply(pixels, 2, 1)
	if c := img.NRGBAAt(0, 0); c.R != 255 || c.A != 255 {
		t.Errorf("pixel 0 = %+v", c)
	}
	if c := img.NRGBAAt(1, 0); c.R != 255 || c.A != 128 {
		t.Errorf("pixel 1 = %+v, want straight white at alpha 128", c)
	}

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("decoded size = %v", b)
	}
}
