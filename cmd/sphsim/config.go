package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/config"
)

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&strategy, "strategy", def.Strategy, "neighbor search (grid, brute)")
	f.StringVar(&integrator, "integrator", def.Integrator, "integrator (verlet, euler)")
	f.Float64Var(&dt, "dt", def.Dt, "timestep")
	f.IntVar(&steps, "steps", def.Steps, "number of steps")
	f.IntVar(&sampleEvery, "sample", def.SampleEvery, "store every n-th frame")
	f.Int64Var(&seed, "seed", def.Seed, "layout jitter seed")
	f.IntVar(&workers, "workers", def.Workers, "worker goroutines for the density and force passes")
	f.IntVar(&particles, "particles", def.Particles.Count, "particle count")
	f.Float64Var(&jitter, "jitter", def.Particles.Jitter, "initial layout jitter")
	f.Float64Var(&gasConstant, "gas", def.Fluid.GasConstant, "gas constant")
	f.Float64Var(&viscosity, "viscosity", def.Fluid.Viscosity, "viscosity")
	f.Float64Var(&restDensity, "rest-density", def.Fluid.RestDensity, "rest density")
	f.Float64Var(&mass, "mass", def.Fluid.Mass, "particle mass")
	f.Float64Var(&radius, "radius", def.Fluid.SmoothingRadius, "smoothing radius")
	f.Float64Var(&gravityModifier, "gravity", def.Gravity.Modifier, "gravity multiplier")
	f.Float64Var(&velocityDamping, "damping", def.Container.VelocityDamping, "wall velocity damping")
	f.IntVar(&cols, "cols", def.Container.Cols, "grid columns")
	f.IntVar(&rows, "rows", def.Container.Rows, "grid rows")
	f.Float64Var(&width, "width", def.Container.Width, "container width")
	f.Float64Var(&height, "height", def.Container.Height, "container height")
}

// flagOverrides apply an explicitly set flag on top of preset and file.
var flagOverrides = []struct {
	name  string
	apply func(*config.Config)
}{
	{"strategy", func(c *config.Config) { c.Strategy = strategy }},
	{"integrator", func(c *config.Config) { c.Integrator = integrator }},
	{"dt", func(c *config.Config) { c.Dt = dt }},
	{"steps", func(c *config.Config) { c.Steps = steps }},
	{"sample", func(c *config.Config) { c.SampleEvery = sampleEvery }},
	{"seed", func(c *config.Config) { c.Seed = seed }},
	{"workers", func(c *config.Config) { c.Workers = workers }},
	{"particles", func(c *config.Config) { c.Particles.Count = particles }},
	{"jitter", func(c *config.Config) { c.Particles.Jitter = jitter }},
	{"gas", func(c *config.Config) { c.Fluid.GasConstant = gasConstant }},
	{"viscosity", func(c *config.Config) { c.Fluid.Viscosity = viscosity }},
	{"rest-density", func(c *config.Config) { c.Fluid.RestDensity = restDensity }},
	{"mass", func(c *config.Config) { c.Fluid.Mass = mass }},
	{"radius", func(c *config.Config) { c.Fluid.SmoothingRadius = radius }},
	{"gravity", func(c *config.Config) { c.Gravity.Modifier = gravityModifier }},
	{"damping", func(c *config.Config) { c.Container.VelocityDamping = velocityDamping }},
	{"cols", func(c *config.Config) { c.Container.Cols = cols }},
	{"rows", func(c *config.Config) { c.Container.Rows = rows }},
	{"width", func(c *config.Config) { c.Container.Width = width }},
	{"height", func(c *config.Config) { c.Container.Height = height }},
}

// resolveConfig layers defaults, the preset, the config file and the flags
// that were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for _, o := range flagOverrides {
		if cmd.Flags().Changed(o.name) {
			o.apply(cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// displayName is the run name used for storage and view titles.
func displayName() string {
	switch {
	case runName != "":
		return runName
	case preset != "":
		return preset
	default:
		return "run"
	}
}
