package backdrop

// Surface is a drawing target owned by a mounted layer. Implementations
// keep their contents between frames so effects can fade instead of clear.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (w, h int)
	// Resize changes the surface size, keeping existing content where it fits.
	Resize(w, h int)
	// Clear fills the surface with transparent black.
	Clear()
	// FillRect composites a solid rectangle over the current content.
	FillRect(x, y, w, h float64, c Color)
	// StrokeLine draws an antialiased line segment.
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	// FillCircle draws a filled disc.
	FillCircle(cx, cy, r float64, c Color, blend BlendMode)
	// FillPolygon draws a filled polygon that is star-shaped around its
	// centroid.
	FillPolygon(points []Vec2, c Color, blend BlendMode)
	// Release frees the surface. It must not be drawn to afterwards.
	Release()
}

// SurfaceStats counts the operations a RecordSurface received.
type SurfaceStats struct {
	Clears   int
	Rects    int
	Lines    int
	Circles  int
	Polygons int
}

// Total returns the number of draw operations, excluding clears.
func (s SurfaceStats) Total() int {
	return s.Rects + s.Lines + s.Circles + s.Polygons
}

// RecordSurface is a Surface that only counts operations. HeadlessHost uses
// it so simulations run without a graphics device.
type RecordSurface struct {
	w, h     int
	stats    SurfaceStats
	released bool
	// LastRect is the color of the most recent FillRect.
	LastRect Color
}

// NewRecordSurface creates a counting surface of the given size.
func NewRecordSurface(w, h int) *RecordSurface {
	return &RecordSurface{w: w, h: h}
}

// Size returns the surface size.
func (s *RecordSurface) Size() (int, int) { return s.w, s.h }

// Resize records the new size.
func (s *RecordSurface) Resize(w, h int) { s.w, s.h = w, h }

// Clear counts a clear.
func (s *RecordSurface) Clear() { s.stats.Clears++ }

// FillRect counts a rectangle.
func (s *RecordSurface) FillRect(_, _, _, _ float64, c Color) {
	s.stats.Rects++
	s.LastRect = c
}

// StrokeLine counts a line.
func (s *RecordSurface) StrokeLine(_, _, _, _, _ float64, _ Color) { s.stats.Lines++ }

// FillCircle counts a disc.
func (s *RecordSurface) FillCircle(_, _, _ float64, _ Color, _ BlendMode) { s.stats.Circles++ }

// FillPolygon counts a polygon.
func (s *RecordSurface) FillPolygon(_ []Vec2, _ Color, _ BlendMode) { s.stats.Polygons++ }

// Release marks the surface released.
func (s *RecordSurface) Release() { s.released = true }

// Released reports whether Release was called.
func (s *RecordSurface) Released() bool { return s.released }

// Stats returns the operation counts so far.
func (s *RecordSurface) Stats() SurfaceStats { return s.stats }

// ResetStats zeroes the operation counts.
func (s *RecordSurface) ResetStats() { s.stats = SurfaceStats{} }
