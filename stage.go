package backdrop

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrStop can be returned from a Stage update hook to close the window
// without reporting an error from Run.
var ErrStop = errors.New("backdrop: stop")

// Stage is the interactive Host: an ebiten.Game that owns the window, turns
// cursor input into pointer events, runs the frame queue once per tick, and
// composites every mounted layer's surface in mount order.
type Stage struct {
	EventHub
	queue FrameQueue

	// ClearColor fills the screen before layers are composited. A zero
	// alpha leaves the screen transparent.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	log       *zap.Logger
	layers    []*Layer
	w, h      int
	resizable bool
	now       float64
	frames    uint64

	// Pointer tracking.
	inside     bool
	lastX      float64
	lastY      float64
	injected   []syntheticEvent
	script     *Script
	shotQueue  []string
	overlay    *overlay
	updateFunc func() error
}

// NewStage creates a stage with a w x h logical screen.
func NewStage(w, h int, log *zap.Logger) *Stage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stage{
		ScreenshotDir: "screenshots",
		log:           log,
		w:             w,
		h:             h,
	}
}

// --- Host ---

// ViewportSize returns the logical screen size.
func (s *Stage) ViewportSize() (int, int) { return s.w, s.h }

// NewSurface allocates a GPU-backed RenderTexture.
func (s *Stage) NewSurface(w, h int) (Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrSurfaceUnavailable, w, h)
	}
	return NewRenderTexture(w, h), nil
}

// Scheduler returns the stage's frame queue.
func (s *Stage) Scheduler() Scheduler { return &s.queue }

// --- Layers ---

// Mount mounts layer on the stage. Layers are drawn in mount order.
func (s *Stage) Mount(layer *Layer) error {
	if err := layer.Mount(s); err != nil {
		return err
	}
	s.layers = append(s.layers, layer)
	return nil
}

// Unmount unmounts layer and stops drawing it.
func (s *Stage) Unmount(layer *Layer) {
	for i, l := range s.layers {
		if l == layer {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			break
		}
	}
	layer.Unmount()
}

// UnmountAll unmounts every layer.
func (s *Stage) UnmountAll() {
	for _, l := range s.layers {
		l.Unmount()
	}
	s.layers = s.layers[:0]
}

// Layers returns the mounted layers. The returned slice must not be mutated.
func (s *Stage) Layers() []*Layer { return s.layers }

// SetUpdateFunc registers a hook called at the start of every Update.
// Returning ErrStop closes the window.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetScript attaches a scripted input sequence. While a script is attached
// real cursor input is ignored.
func (s *Stage) SetScript(sc *Script) {
	s.script = sc
}

// --- ebiten.Game ---

// Update runs the hook, processes input, and fires one frame of callbacks.
func (s *Stage) Update() error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()

	s.frames++
	s.now = float64(s.frames) * 1000 / float64(ebiten.TPS())
	s.queue.RunFrame(s.now)
	return nil
}

// processInput consumes one injected event, or polls the cursor when none
// is queued and no script is attached.
func (s *Stage) processInput() {
	if s.processInjected() || s.script != nil {
		return
	}
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	inside := ebiten.IsFocused() && cx >= 0 && cy >= 0 && cx < s.w && cy < s.h
	switch {
	case inside && (!s.inside || x != s.lastX || y != s.lastY):
		s.inside, s.lastX, s.lastY = true, x, y
		s.EmitPointerMove(x, y)
	case !inside && s.inside:
		s.inside = false
		s.EmitPointerLeave()
	}
}

// Draw composites the layers and the overlay, then writes queued
// screenshots.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.NRGBA())
	} else {
		screen.Fill(color.Transparent)
	}
	for _, l := range s.layers {
		if rt, ok := l.Surface().(*RenderTexture); ok && rt.Image() != nil {
			screen.DrawImage(rt.Image(), nil)
		}
	}
	if s.overlay != nil {
		s.overlay.draw(screen, s)
	}
	s.flushScreenshots(screen)
}

// Layout reports the logical screen size. A resizable stage follows the
// window and notifies subscribers when it changes.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	if s.resizable && (outsideWidth != s.w || outsideHeight != s.h) && outsideWidth > 0 && outsideHeight > 0 {
		s.resize(outsideWidth, outsideHeight)
	}
	return s.w, s.h
}

func (s *Stage) resize(w, h int) {
	s.w, s.h = w, h
	s.log.Debug("viewport resized", zap.Int("width", w), zap.Int("height", h))
	s.EmitResize(w, h)
}

// RunConfig holds optional settings for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	TPS       int
	Resizable bool
	ShowFPS   bool
}

// Run opens a window and runs the stage until it is closed. Every mounted
// layer is unmounted before Run returns.
func Run(s *Stage, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 && (cfg.Width != s.w || cfg.Height != s.h) {
		s.resize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(s.w, s.h)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	s.resizable = cfg.Resizable
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		s.overlay = &overlay{}
	}
	defer s.UnmountAll()

	err := ebiten.RunGame(s)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}
