package backdrop

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Field maps a viewport position at time t (milliseconds) to a flow angle in
// radians. ok is false when the field has no value at (x, y); the integrator
// then applies no field force for that tick.
type Field interface {
	Sample(x, y, t float64) (angle float64, ok bool)
}

// Refresher is implemented by fields that precompute per-frame state.
type Refresher interface {
	Refresh(t float64)
}

// Resizer is implemented by fields whose extent tracks the viewport.
type Resizer interface {
	Resize(w, h int)
}

// flowAngle is the trigonometric composition shared by GridField and
// WaveField. cx and cy are in cell units, t in milliseconds.
func flowAngle(cx, cy, t float64) float64 {
	return math.Sin(cx*0.1+t*0.001) *
		math.Cos(cy*0.1+t*0.0008) *
		math.Sin((cx+cy)*0.05+t*0.0005) *
		math.Pi
}

// --- GridField ---

// GridField holds one angle per CellSize x CellSize block of the viewport.
// Refresh recomputes every cell for the frame time; Sample looks up the cell
// containing the point.
type GridField struct {
	cellSize   float64
	cols, rows int
	cells      []float64
}

// NewGridField creates a grid covering a w x h viewport.
func NewGridField(w, h int, cellSize float64) *GridField {
	if cellSize <= 0 {
		cellSize = 25
	}
	g := &GridField{cellSize: cellSize}
	g.Resize(w, h)
	return g
}

// CellSize returns the edge length of one cell in pixels.
func (g *GridField) CellSize() float64 { return g.cellSize }

// Dims returns the grid dimensions in cells.
func (g *GridField) Dims() (cols, rows int) { return g.cols, g.rows }

// Resize recomputes the grid dimensions for a new viewport. Existing cell
// values are discarded; the next Refresh fills them in.
func (g *GridField) Resize(w, h int) {
	g.cols = int(math.Ceil(float64(max(w, 0)) / g.cellSize))
	g.rows = int(math.Ceil(float64(max(h, 0)) / g.cellSize))
	n := g.cols * g.rows
	if cap(g.cells) >= n {
		g.cells = g.cells[:n]
		clear(g.cells)
	} else {
		g.cells = make([]float64, n)
	}
}

// Refresh recomputes every cell for time t.
func (g *GridField) Refresh(t float64) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			g.cells[row*g.cols+col] = flowAngle(float64(col), float64(row), t)
		}
	}
}

// Cell returns the stored angle for a cell, or ok=false when out of range.
func (g *GridField) Cell(col, row int) (float64, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, false
	}
	return g.cells[row*g.cols+col], true
}

// Sample returns the angle of the cell containing (x, y). t is ignored;
// call Refresh once per frame instead.
func (g *GridField) Sample(x, y, _ float64) (float64, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	return g.Cell(int(x/g.cellSize), int(y/g.cellSize))
}

// --- WaveField ---

// WaveField evaluates the same trigonometric flow as GridField directly at
// the particle position, without a grid. It has no extent and never fails.
type WaveField struct {
	CellSize float64
}

// Sample evaluates the flow angle at (x, y, t).
func (f WaveField) Sample(x, y, t float64) (float64, bool) {
	cell := f.CellSize
	if cell <= 0 {
		cell = 25
	}
	return flowAngle(x/cell, y/cell, t), true
}

// --- Noise fields ---

// NoiseField samples OpenSimplex noise. Scale converts pixels to noise
// space, Speed converts milliseconds to the noise time axis, and Turns is the
// number of full rotations the [-1, 1] noise range is spread over.
type NoiseField struct {
	Scale float64
	Speed float64
	Turns float64
	noise opensimplex.Noise
}

// NewNoiseField creates an OpenSimplex field with the given seed.
func NewNoiseField(seed int64, scale, speed float64) *NoiseField {
	return &NoiseField{
		Scale: scale,
		Speed: speed,
		Turns: 1,
		noise: opensimplex.New(seed),
	}
}

// Sample evaluates the noise at (x, y, t).
func (f *NoiseField) Sample(x, y, t float64) (float64, bool) {
	n := f.noise.Eval3(x*f.Scale, y*f.Scale, t*f.Speed)
	return n * math.Pi * f.Turns, true
}

// PerlinField samples classic Perlin noise. Parameters match NoiseField.
type PerlinField struct {
	Scale float64
	Speed float64
	Turns float64
	noise *perlin.Perlin
}

// NewPerlinField creates a Perlin field with the given seed. Alpha 2 and
// beta 2 give the usual fractal falloff over three octaves.
func NewPerlinField(seed int64, scale, speed float64) *PerlinField {
	return &PerlinField{
		Scale: scale,
		Speed: speed,
		Turns: 1,
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Sample evaluates the noise at (x, y, t).
func (f *PerlinField) Sample(x, y, t float64) (float64, bool) {
	n := f.noise.Noise3D(x*f.Scale, y*f.Scale, t*f.Speed)
	// Perlin output sits roughly in [-0.7, 0.7]; widen it toward [-1, 1].
	n = math.Max(-1, math.Min(1, n*1.4))
	return n * math.Pi * f.Turns, true
}
