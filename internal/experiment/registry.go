package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/integrators"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/physics"
)

// stabilityFactor scales the free-fall speed into the stability threshold.
const stabilityFactor = 50

type Registry struct {
	strategies  map[string]func() physics.Option
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		strategies:  make(map[string]func() physics.Option),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.strategies["grid"] = physics.WithGrid
	r.strategies["brute"] = physics.WithBruteForce

	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetStrategy(name string) (physics.Option, error) {
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListStrategies() []string  { return sortedKeys(r.strategies) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

// BuildSolver creates a solver with the strategy and integrator named in cfg.
func (r *Registry) BuildSolver(cfg *config.Config) (*physics.Solver, error) {
	strategy, err := r.GetStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return physics.New(cfg.Params(), strategy, physics.WithIntegrator(integ))
}

// DefaultMetrics returns fresh instances of every run metric for p.
func (r *Registry) DefaultMetrics(p physics.Params) []dynamo.Metric {
	g := p.Gravity.Y * p.GravityModifier

	threshold := stabilityFactor * p.FreeFallSpeed()
	if threshold == 0 {
		threshold = stabilityFactor * p.ContainerSize.Y
	}

	return []dynamo.Metric{
		metrics.NewKineticEnergy(p.Mass),
		metrics.NewPotentialEnergy(p.Mass, g, p.Offset.Y),
		metrics.NewMaxSpeed(),
		metrics.NewDensityError(p.RestDensity),
		metrics.NewStability(threshold),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
