package config

import "sort"

var Presets = map[string]*Config{
	"dam_break": preset(func(c *Config) {}),
	"calm": preset(func(c *Config) {
		c.Particles.Count = 100
		c.Fluid.Viscosity = 2.0
		c.Container.VelocityDamping = 0.2
	}),
	"splash": preset(func(c *Config) {
		c.Particles.Count = 144
		c.Particles.Jitter = 0.1
		c.Seed = 42
		c.Fluid.GasConstant = 80
		c.Container.VelocityDamping = 0.8
		c.Steps = 900
	}),
	"zero_g": preset(func(c *Config) {
		c.Particles.Jitter = 0.05
		c.Seed = 7
		c.Gravity.Modifier = 0
	}),
	"large": preset(func(c *Config) {
		c.Particles.Count = 900
		c.Container.Width = 20
		c.Container.Height = 20
		c.Container.Cols = 28
		c.Container.Rows = 28
		c.Workers = 4
		c.SampleEvery = 10
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
