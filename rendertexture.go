package backdrop

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ShaderSurface is implemented by surfaces that can run a Kage shader over
// their full extent.
type ShaderSurface interface {
	Surface
	DrawShader(shader *ebiten.Shader, uniforms map[string]any)
}

// RenderTexture is a persistent offscreen canvas backed by an ebiten.Image.
// It is owned by one layer and keeps its pixels between frames, which is
// what makes low-alpha fades produce trails.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int

	verts    []ebiten.Vertex
	inds     []uint16
	triOp    ebiten.DrawTrianglesOptions
	shaderOp ebiten.DrawRectShaderOptions
}

// NewRenderTexture creates a canvas of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	w, h = max(w, 1), max(h, 1)
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for compositing.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Size returns the texture size in pixels.
func (rt *RenderTexture) Size() (int, int) {
	return rt.w, rt.h
}

// Resize reallocates the texture and copies the old content to the origin.
func (rt *RenderTexture) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == rt.w && h == rt.h {
		return
	}
	next := ebiten.NewImage(w, h)
	if rt.image != nil {
		next.DrawImage(rt.image, nil)
		rt.image.Deallocate()
	}
	rt.image = next
	rt.w, rt.h = w, h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// FillRect composites a solid rectangle.
func (rt *RenderTexture) FillRect(x, y, w, h float64, c Color) {
	vector.DrawFilledRect(rt.image, float32(x), float32(y), float32(w), float32(h), c.NRGBA(), false)
}

// StrokeLine draws an antialiased segment.
func (rt *RenderTexture) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	vector.StrokeLine(rt.image, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c.NRGBA(), true)
}

// FillCircle draws a disc as a triangle fan so the blend mode can be chosen.
func (rt *RenderTexture) FillCircle(cx, cy, r float64, c Color, blend BlendMode) {
	if r <= 0 || c.A <= 0 {
		return
	}
	segs := int(math.Max(12, math.Min(48, r*1.5)))
	rt.verts = rt.verts[:0]
	rt.verts = appendVertex(rt.verts, cx, cy, c)
	for i := 0; i <= segs; i++ {
		a := float64(i) / float64(segs) * 2 * math.Pi
		rt.verts = appendVertex(rt.verts, cx+math.Cos(a)*r, cy+math.Sin(a)*r, c)
	}
	rt.inds = appendFanIndices(rt.inds[:0], len(rt.verts))
	rt.drawTriangles(blend)
}

// FillPolygon draws a polygon that is star-shaped around its centroid, as a
// fan from the centroid. Convex polygons always qualify.
func (rt *RenderTexture) FillPolygon(points []Vec2, c Color, blend BlendMode) {
	if len(points) < 3 || c.A <= 0 {
		return
	}
	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(points))
	rt.verts = rt.verts[:0]
	rt.verts = appendVertex(rt.verts, cx/n, cy/n, c)
	for _, p := range points {
		rt.verts = appendVertex(rt.verts, p.X, p.Y, c)
	}
	rt.verts = appendVertex(rt.verts, points[0].X, points[0].Y, c)
	rt.inds = appendFanIndices(rt.inds[:0], len(rt.verts))
	rt.drawTriangles(blend)
}

// DrawShader runs shader over the whole texture.
func (rt *RenderTexture) DrawShader(shader *ebiten.Shader, uniforms map[string]any) {
	rt.shaderOp.Uniforms = uniforms
	rt.image.DrawRectShader(rt.w, rt.h, shader, &rt.shaderOp)
}

// Release deallocates the GPU image.
func (rt *RenderTexture) Release() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
}

func (rt *RenderTexture) drawTriangles(blend BlendMode) {
	rt.triOp.Blend = blend.EbitenBlend()
	rt.triOp.AntiAlias = true
	rt.image.DrawTriangles(rt.verts, rt.inds, whiteSubImage(), &rt.triOp)
}

// appendVertex adds an untextured vertex sampling the center of the white
// pixel.
func appendVertex(vs []ebiten.Vertex, x, y float64, c Color) []ebiten.Vertex {
	return append(vs, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1.5,
		SrcY:   1.5,
		ColorR: float32(c.R),
		ColorG: float32(c.G),
		ColorB: float32(c.B),
		ColorA: float32(c.A),
	})
}

// appendFanIndices emits 3*(n-2) indices with vertex 0 as the hub.
func appendFanIndices(inds []uint16, n int) []uint16 {
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	return inds
}

var whiteImage *ebiten.Image

// whiteSubImage returns the inner pixel of a 3x3 white image. Sampling the
// inner pixel avoids bleeding from the transparent border under filtering.
func whiteSubImage() *ebiten.Image {
	if whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteImage
}
