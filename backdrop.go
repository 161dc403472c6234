package backdrop

import (
	"errors"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrSurfaceUnavailable is returned by Layer.Mount when the host cannot
	// provide a drawing surface. The layer stays unmounted and draws nothing.
	ErrSurfaceUnavailable = errors.New("backdrop: surface unavailable")
	// ErrAlreadyMounted is returned when Mount is called on a mounted layer.
	ErrAlreadyMounted = errors.New("backdrop: layer already mounted")
	// ErrUnknownEffect is returned by NewEffect for names that are not registered.
	ErrUnknownEffect = errors.New("backdrop: unknown effect")
	// ErrShaderUnavailable is returned when a Kage shader fails to compile or
	// the surface cannot run shaders.
	ErrShaderUnavailable = errors.New("backdrop: shader unavailable")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// HSLA builds a Color from a hue in degrees, saturation and lightness in
// [0, 1], and an alpha. Hues outside [0, 360) wrap around.
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, s, l).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: a}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Lerp blends c toward o by t in RGB space.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: lerp(c.R, o.R, t),
		G: lerp(c.G, o.G, t),
		B: lerp(c.B, o.B, t),
		A: lerp(c.A, o.A, t),
	}
}

// Hue returns the color's hue in degrees.
func (c Color) Hue() float64 {
	h, _, _ := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return h
}

// NRGBA converts to a straight-alpha 8-bit color for image and vector APIs.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, velocities, and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle with its origin at the top-left and Y
// increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Viewport returns a Rect anchored at the origin with the given size.
func Viewport(w, h int) Rect {
	return Rect{Width: float64(w), Height: float64(h)}
}

// Range is a general-purpose min/max range used for randomized attributes.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Rand returns a value in [Min, Max] drawn from r.
func (rg Range) Rand(r *Rand) float64 {
	if rg.Min == rg.Max {
		return rg.Min
	}
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// BlendMode selects a compositing operation. Each maps to an ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over
	BlendAdd                     // additive / lighter, used for glows
	BlendScreen                  // screen (only brightens)
	BlendNone                    // opaque copy
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(e0, e1, x float64) float64 {
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}
