package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphsim/internal/physics"
	"github.com/san-kum/sphsim/internal/sim"
)

const (
	DefaultStrategy   = "grid"
	DefaultIntegrator = "verlet"
	DefaultDt         = 1.0 / 60
	DefaultSteps      = 600
	DefaultSample     = 5
)

type Config struct {
	Strategy    string          `yaml:"strategy"`
	Integrator  string          `yaml:"integrator"`
	Dt          float64         `yaml:"dt"`
	Steps       int             `yaml:"steps"`
	SampleEvery int             `yaml:"sample_every"`
	Seed        int64           `yaml:"seed"`
	Workers     int             `yaml:"workers"`
	Particles   ParticleConfig  `yaml:"particles"`
	Fluid       FluidConfig     `yaml:"fluid"`
	Container   ContainerConfig `yaml:"container"`
	Gravity     GravityConfig   `yaml:"gravity"`
}

type ParticleConfig struct {
	Count  int     `yaml:"count"`
	Jitter float64 `yaml:"jitter"`
}

type FluidConfig struct {
	SmoothingRadius float64 `yaml:"smoothing_radius"`
	HashRadius      float64 `yaml:"hash_radius,omitempty"`
	Mass            float64 `yaml:"mass"`
	GasConstant     float64 `yaml:"gas_constant"`
	Viscosity       float64 `yaml:"viscosity"`
	RestDensity     float64 `yaml:"rest_density"`
}

type ContainerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"`
	Cols            int     `yaml:"cols"`
	Rows            int     `yaml:"rows"`
	VelocityDamping float64 `yaml:"velocity_damping"`
	ForceDamping    float64 `yaml:"force_damping"`
}

type GravityConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Modifier float64 `yaml:"modifier"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Strategy:    DefaultStrategy,
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSample,
		Workers:     p.Workers,
		Particles:   ParticleConfig{Count: p.ParticleCount},
		Fluid: FluidConfig{
			SmoothingRadius: p.SmoothingRadius,
			Mass:            p.Mass,
			GasConstant:     p.GasConstant,
			Viscosity:       p.Viscosity,
			RestDensity:     p.RestDensity,
		},
		Container: ContainerConfig{
			Width:           p.ContainerSize.X,
			Height:          p.ContainerSize.Y,
			OffsetX:         p.Offset.X,
			OffsetY:         p.Offset.Y,
			Cols:            p.Cols,
			Rows:            p.Rows,
			VelocityDamping: p.VelocityDamping,
			ForceDamping:    p.ForceDamping,
		},
		Gravity: GravityConfig{
			X:        p.Gravity.X,
			Y:        p.Gravity.Y,
			Modifier: p.GravityModifier,
		},
	}
}

// Load reads a YAML file over the defaults, so partial files are valid.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over cfg; keys missing from the file keep
// their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file layout into solver parameters.
func (c *Config) Params() physics.Params {
	return physics.Params{
		ParticleCount:   c.Particles.Count,
		ContainerSize:   r2.Vec{X: c.Container.Width, Y: c.Container.Height},
		Offset:          r2.Vec{X: c.Container.OffsetX, Y: c.Container.OffsetY},
		Cols:            c.Container.Cols,
		Rows:            c.Container.Rows,
		SmoothingRadius: c.Fluid.SmoothingRadius,
		HashRadius:      c.Fluid.HashRadius,
		Mass:            c.Fluid.Mass,
		GasConstant:     c.Fluid.GasConstant,
		Viscosity:       c.Fluid.Viscosity,
		RestDensity:     c.Fluid.RestDensity,
		VelocityDamping: c.Container.VelocityDamping,
		ForceDamping:    c.Container.ForceDamping,
		Gravity:         r2.Vec{X: c.Gravity.X, Y: c.Gravity.Y},
		GravityModifier: c.Gravity.Modifier,
		Jitter:          c.Particles.Jitter,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Validate checks both the solver parameters and the run settings.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	return c.SimConfig().Validate()
}

// SetParam sets the field behind a runtime parameter name, using the
// solver's parameter table so geometry changes refit the grid the same way.
func (c *Config) SetParam(name string, v float64) error {
	p := c.Params()
	if err := p.Set(name, v); err != nil {
		return err
	}
	c.setParams(p)
	return nil
}

// setParams is the inverse of Params.
func (c *Config) setParams(p physics.Params) {
	c.Particles = ParticleConfig{Count: p.ParticleCount, Jitter: p.Jitter}
	c.Seed = p.Seed
	c.Workers = p.Workers
	c.Fluid = FluidConfig{
		SmoothingRadius: p.SmoothingRadius,
		HashRadius:      p.HashRadius,
		Mass:            p.Mass,
		GasConstant:     p.GasConstant,
		Viscosity:       p.Viscosity,
		RestDensity:     p.RestDensity,
	}
	c.Container = ContainerConfig{
		Width:           p.ContainerSize.X,
		Height:          p.ContainerSize.Y,
		OffsetX:         p.Offset.X,
		OffsetY:         p.Offset.Y,
		Cols:            p.Cols,
		Rows:            p.Rows,
		VelocityDamping: p.VelocityDamping,
		ForceDamping:    p.ForceDamping,
	}
	c.Gravity = GravityConfig{X: p.Gravity.X, Y: p.Gravity.Y, Modifier: p.GravityModifier}
}
