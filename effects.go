package backdrop

import (
	"fmt"
	"sort"
)

// effectFactories maps effect names to constructors reading their section of
// a Config.
var effectFactories = map[string]func(cfg *Config) Effect{
	"flowfield":     func(c *Config) Effect { return NewFlowField(c.FlowField) },
	"constellation": func(c *Config) Effect { return NewConstellation(c.Constellation) },
	"aurora":        func(c *Config) Effect { return NewAurora(c.Aurora) },
	"blobs":         func(c *Config) Effect { return NewBlobs(c.Blobs) },
	"floaters":      func(c *Config) Effect { return NewFloaters(c.Floaters) },
	"orbits":        func(c *Config) Effect { return NewOrbits(c.Orbits) },
}

// NewEffect builds the named effect from cfg. A nil cfg uses the embedded
// presets.
func NewEffect(name string, cfg *Config) (Effect, error) {
	f, ok := effectFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEffect, name)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return f(cfg), nil
}

// EffectNames returns the registered effect names in sorted order.
func EffectNames() []string {
	names := make([]string, 0, len(effectFactories))
	for n := range effectFactories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsEffect reports whether name is a registered effect.
func IsEffect(name string) bool {
	_, ok := effectFactories[name]
	return ok
}

// ParticleSource is implemented by effects backed by a ParticleStore.
type ParticleSource interface {
	Particles() []Particle
}
