package backdrop

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Config holds the window settings and the tuning of every built-in effect.
type Config struct {
	Effect string `yaml:"effect"`
	Seed   uint64 `yaml:"seed"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
	Debug  bool   `yaml:"debug"`

	FlowField     FlowFieldConfig     `yaml:"flowfield"`
	Constellation ConstellationConfig `yaml:"constellation"`
	Aurora        AuroraConfig        `yaml:"aurora"`
	Blobs         BlobsConfig         `yaml:"blobs"`
	Floaters      FloatersConfig      `yaml:"floaters"`
	Orbits        OrbitsConfig        `yaml:"orbits"`
}

// HSL is a palette entry in configuration files. H is in degrees; S, L and
// A are in [0, 1].
type HSL struct {
	H float64 `yaml:"h"`
	S float64 `yaml:"s"`
	L float64 `yaml:"l"`
	A float64 `yaml:"a"`
}

// Color converts the entry to a Color.
func (c HSL) Color() Color { return HSLA(c.H, c.S, c.L, c.A) }

// Palette converts a list of HSL entries.
func Palette(entries []HSL) []Color {
	out := make([]Color, len(entries))
	for i, e := range entries {
		out[i] = e.Color()
	}
	return out
}

// FlowFieldConfig tunes the FlowField effect.
type FlowFieldConfig struct {
	MaxCount      int     `yaml:"max_count"`     // particle cap
	Density       float64 `yaml:"density"`       // one particle per this many viewport pixels of width
	Field         string  `yaml:"field"`         // grid, wave, simplex, perlin
	CellSize      float64 `yaml:"cell_size"`     // grid resolution in pixels
	NoiseScale    float64 `yaml:"noise_scale"`   // pixels to noise units (simplex, perlin)
	NoiseSpeed    float64 `yaml:"noise_speed"`   // milliseconds to noise units
	Force         float64 `yaml:"force"`
	Jitter        float64 `yaml:"jitter"`
	MaxSpeed      float64 `yaml:"max_speed"`
	PointerRadius float64 `yaml:"pointer_radius"`
	PointerForce  float64 `yaml:"pointer_force"`
	Margin        float64 `yaml:"margin"`
	TrailLength   int     `yaml:"trail_length"`
	TrailAlpha    float64 `yaml:"trail_alpha"`
	Lifetime      Range   `yaml:"lifetime"`
	Size          Range   `yaml:"size"`
	Glow          float64 `yaml:"glow"`
	Fade          Color   `yaml:"fade"`
	Palette       []HSL   `yaml:"palette"`
}

// ConstellationConfig tunes the Constellation effect.
type ConstellationConfig struct {
	MaxCount      int     `yaml:"max_count"`
	Density       float64 `yaml:"density"`
	Speed         float64 `yaml:"speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	Damping       float64 `yaml:"damping"`
	Boundary      string  `yaml:"boundary"`
	PointerRadius float64 `yaml:"pointer_radius"`
	PointerForce  float64 `yaml:"pointer_force"`
	LinkDistance  float64 `yaml:"link_distance"`
	LinkAlpha     float64 `yaml:"link_alpha"`
	LinkWidth     float64 `yaml:"link_width"`
	Size          Range   `yaml:"size"`
	Opacity       Range   `yaml:"opacity"`
	Glow          float64 `yaml:"glow"`
	Fade          Color   `yaml:"fade"`
	Palette       []HSL   `yaml:"palette"`
}

// AuroraConfig tunes the Aurora effect.
type AuroraConfig struct {
	Speed    float64 `yaml:"speed"`     // time multiplier
	Cell     int     `yaml:"cell"`      // fallback grid cell size in pixels
	ForceCPU bool    `yaml:"force_cpu"` // skip the shader even when available
}

// BlobsConfig tunes the Blobs effect.
type BlobsConfig struct {
	Count     int     `yaml:"count"`
	Size      Range   `yaml:"size"`
	Opacity   float64 `yaml:"opacity"`
	Nudge     float64 `yaml:"nudge"`      // pointer nudge distance in pixels
	NudgeTime float64 `yaml:"nudge_time"` // seconds
	Blur      float64 `yaml:"blur"`       // halo width in pixels
	Steps     int     `yaml:"steps"`      // radial gradient steps
	Fade      Color   `yaml:"fade"`       // zero alpha clears every frame
}

// FloatersConfig tunes the Floaters effect.
type FloatersConfig struct {
	Count    int     `yaml:"count"`
	Points   int     `yaml:"points"`
	Size     Range   `yaml:"size"`
	Speed    Range   `yaml:"speed"`
	Alpha    Range   `yaml:"alpha"`
	Hue      Range   `yaml:"hue"`
	TimeStep float64 `yaml:"time_step"`
	Spin     float64 `yaml:"spin"`
	Steps    int     `yaml:"steps"`
	Fade     Color   `yaml:"fade"`
}

// OrbitsConfig tunes the Orbits effect.
type OrbitsConfig struct {
	Count    int     `yaml:"count"`
	Radius   float64 `yaml:"radius"`  // innermost orbit
	Spacing  float64 `yaml:"spacing"` // distance between orbits
	Size     float64 `yaml:"size"`
	Swell    float64 `yaml:"swell"`
	TimeStep float64 `yaml:"time_step"`
	HueStart float64 `yaml:"hue_start"`
	HueStep  float64 `yaml:"hue_step"`
	Glow     float64 `yaml:"glow"`
	Fade     Color   `yaml:"fade"`
}

// DefaultConfig returns the embedded presets.
func DefaultConfig() *Config {
	cfg, err := ParseConfig(nil)
	if err != nil {
		panic("backdrop: embedded presets are invalid: " + err.Error())
	}
	return cfg
}

// ParseConfig overlays data on the embedded presets. Only keys present in
// data replace defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(presetsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded presets: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML file and overlays it on the embedded presets. An
// empty path returns the presets unchanged.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// Validate rejects settings no effect can run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("config: tps %d must be positive", c.TPS)
	}
	if c.Effect != "" && !IsEffect(c.Effect) {
		return fmt.Errorf("config: %w %q", ErrUnknownEffect, c.Effect)
	}
	switch c.FlowField.Field {
	case "", "grid", "wave", "simplex", "perlin":
	default:
		return fmt.Errorf("config: unknown flow field %q", c.FlowField.Field)
	}
	if !IsBoundary(c.Constellation.Boundary) {
		return fmt.Errorf("config: unknown constellation boundary %q", c.Constellation.Boundary)
	}
	return nil
}
