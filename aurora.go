package backdrop

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"
)

// auroraShaderSrc layers three octaves of 3D simplex noise into banded
// aurora colors. Uniforms: Time in seconds, Resolution in pixels.
const auroraShaderSrc = `//kage:unit pixels

package main

var Time float
var Resolution vec2

func mod289v3(x vec3) vec3 {
	return x - floor(x*(1.0/289.0))*289.0
}

func mod289v4(x vec4) vec4 {
	return x - floor(x*(1.0/289.0))*289.0
}

func permute(x vec4) vec4 {
	return mod289v4(((x * 34.0) + 1.0) * x)
}

func taylorInvSqrt(r vec4) vec4 {
	return 1.79284291400159 - 0.85373472095314*r
}

func snoise(v vec3) float {
	C := vec2(1.0/6.0, 1.0/3.0)
	D := vec4(0.0, 0.5, 1.0, 2.0)

	i := floor(v + dot(v, C.yyy))
	x0 := v - i + dot(i, C.xxx)

	g := step(x0.yzx, x0.xyz)
	l := 1.0 - g
	i1 := min(g.xyz, l.zxy)
	i2 := max(g.xyz, l.zxy)

	x1 := x0 - i1 + C.xxx
	x2 := x0 - i2 + C.yyy
	x3 := x0 - D.yyy

	i = mod289v3(i)
	p := permute(permute(permute(
		i.z+vec4(0.0, i1.z, i2.z, 1.0))+
		i.y+vec4(0.0, i1.y, i2.y, 1.0))+
		i.x+vec4(0.0, i1.x, i2.x, 1.0))

	n_ := 0.142857142857
	ns := n_*D.wyz - D.xzx

	j := p - 49.0*floor(p*ns.z*ns.z)

	x_ := floor(j * ns.z)
	y_ := floor(j - 7.0*x_)

	x := x_*ns.x + ns.yyyy
	y := y_*ns.x + ns.yyyy
	h := 1.0 - abs(x) - abs(y)

	b0 := vec4(x.xy, y.xy)
	b1 := vec4(x.zw, y.zw)

	s0 := floor(b0)*2.0 + 1.0
	s1 := floor(b1)*2.0 + 1.0
	sh := -step(h, vec4(0.0))

	a0 := b0.xzyw + s0.xzyw*sh.xxyy
	a1 := b1.xzyw + s1.xzyw*sh.zzww

	p0 := vec3(a0.xy, h.x)
	p1 := vec3(a0.zw, h.y)
	p2 := vec3(a1.xy, h.z)
	p3 := vec3(a1.zw, h.w)

	norm := taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)))
	p0 *= norm.x
	p1 *= norm.y
	p2 *= norm.z
	p3 *= norm.w

	m := max(0.6-vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), vec4(0.0))
	m = m * m
	return 42.0 * dot(m*m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := (dstPos.xy - imageDstOrigin()) / Resolution
	uv := vec2(pos.x*Resolution.x/Resolution.y, 1.0-pos.y)

	t := Time * 0.1
	n1 := snoise(vec3(uv*3.0, t))
	n2 := snoise(vec3(uv*6.0+2.0, t*1.3))
	n3 := snoise(vec3(uv*12.0+4.0, t*1.7))

	a := n1*0.6 + n2*0.3 + n3*0.1
	a = smoothstep(0.3, 0.7, a)

	c := mix(vec3(0.1, 0.5, 0.8), vec3(0.3, 0.8, 0.9), smoothstep(0.0, 0.3, a))
	c = mix(c, vec3(0.6, 0.9, 1.0), smoothstep(0.3, 0.6, a))
	c = mix(c, vec3(0.8, 0.4, 1.0), smoothstep(0.6, 1.0, a))

	c *= smoothstep(0.0, 0.5, uv.y)
	c *= sin(Time*0.5)*0.1 + 0.9

	// Premultiplied output.
	return vec4(c*0.8, 0.8)
}
`

// --- Lazy shader compilation (single-threaded, like the rest of the package) ---

var (
	auroraShader    *ebiten.Shader
	auroraShaderErr error
)

// ensureAuroraShader compiles the aurora shader once. A compile failure is
// remembered and returned on every call.
func ensureAuroraShader() (*ebiten.Shader, error) {
	if auroraShader == nil && auroraShaderErr == nil {
		s, err := ebiten.NewShader([]byte(auroraShaderSrc))
		if err != nil {
			auroraShaderErr = fmt.Errorf("%w: aurora: %w", ErrShaderUnavailable, err)
		} else {
			auroraShader = s
		}
	}
	return auroraShader, auroraShaderErr
}

// Aurora band colors, darkest first.
var auroraBands = [4]Color{
	{R: 0.1, G: 0.5, B: 0.8, A: 1}, // deep blue
	{R: 0.3, G: 0.8, B: 0.9, A: 1}, // electric teal
	{R: 0.6, G: 0.9, B: 1.0, A: 1}, // light cyan
	{R: 0.8, G: 0.4, B: 1.0, A: 1}, // purple
}

// auroraAlpha is the constant output alpha of the aurora.
const auroraAlpha = 0.8

var auroraNoise = opensimplex.New(0)

// AuroraShade is the CPU rendition of the aurora shader. u and v are the
// normalized position (v = 0 at the bottom edge, u already scaled by the
// aspect ratio) and t is in seconds. The result is straight alpha.
func AuroraShade(u, v, t float64) Color {
	tt := t * 0.1
	n1 := auroraNoise.Eval3(u*3, v*3, tt)
	n2 := auroraNoise.Eval3(u*6+2, v*6+2, tt*1.3)
	n3 := auroraNoise.Eval3(u*12+4, v*12+4, tt*1.7)

	a := smoothstep(0.3, 0.7, n1*0.6+n2*0.3+n3*0.1)

	c := auroraBands[0].Lerp(auroraBands[1], smoothstep(0, 0.3, a))
	c = c.Lerp(auroraBands[2], smoothstep(0.3, 0.6, a))
	c = c.Lerp(auroraBands[3], smoothstep(0.6, 1, a))

	k := smoothstep(0, 0.5, v) * (math.Sin(t*0.5)*0.1 + 0.9)
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: auroraAlpha}
}

// Aurora paints a full-viewport noise aurora. On surfaces that can run
// shaders it uses the Kage shader; otherwise, or when the shader fails to
// compile, it shades a coarse grid with AuroraShade.
type Aurora struct {
	cfg AuroraConfig

	log      *zap.Logger
	shader   *ebiten.Shader
	uniforms map[string]any
	w, h     int
	seconds  float64
}

// NewAurora creates an unmounted Aurora.
func NewAurora(cfg AuroraConfig) *Aurora {
	return &Aurora{cfg: cfg}
}

// Name implements Effect.
func (e *Aurora) Name() string { return "aurora" }

// UsesShader reports whether the GPU path is active.
func (e *Aurora) UsesShader() bool { return e.shader != nil }

// Mount implements Effect.
func (e *Aurora) Mount(env Env) error {
	e.log = env.Logger
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.w, e.h = env.Width, env.Height
	e.seconds = 0
	e.shader = nil
	if _, ok := env.Surface.(ShaderSurface); ok && !e.cfg.ForceCPU {
		s, err := ensureAuroraShader()
		if err != nil {
			e.log.Warn("aurora shader unavailable; using CPU fallback", zap.Error(err))
		} else {
			e.shader = s
			e.uniforms = map[string]any{}
		}
	}
	return nil
}

// Update implements Effect.
func (e *Aurora) Update(f Frame) {
	speed := e.cfg.Speed
	if speed == 0 {
		speed = 1
	}
	e.seconds = f.Time / 1000 * speed
	e.w, e.h = f.Width, f.Height
}

// Draw implements Effect.
func (e *Aurora) Draw(s Surface) {
	s.Clear()
	if ss, ok := s.(ShaderSurface); ok && e.shader != nil {
		e.uniforms["Time"] = float32(e.seconds)
		e.uniforms["Resolution"] = []float32{float32(e.w), float32(e.h)}
		ss.DrawShader(e.shader, e.uniforms)
		return
	}
	e.drawCPU(s)
}

// drawCPU fills the surface with cell x cell blocks shaded at their centers.
func (e *Aurora) drawCPU(s Surface) {
	cell := e.cfg.Cell
	if cell <= 0 {
		cell = 16
	}
	if e.w <= 0 || e.h <= 0 {
		return
	}
	aspect := float64(e.w) / float64(e.h)
	for y := 0; y < e.h; y += cell {
		v := 1 - (float64(y)+float64(cell)/2)/float64(e.h)
		for x := 0; x < e.w; x += cell {
			u := (float64(x) + float64(cell)/2) / float64(e.w) * aspect
			s.FillRect(float64(x), float64(y), float64(cell), float64(cell), AuroraShade(u, v, e.seconds))
		}
	}
}

// Resize implements Effect.
func (e *Aurora) Resize(w, h int) {
	e.w, e.h = w, h
}

// Unmount implements Effect. The compiled shader is shared and kept.
func (e *Aurora) Unmount() {
	e.shader = nil
	e.uniforms = nil
}
