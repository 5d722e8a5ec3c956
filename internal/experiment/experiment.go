package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/physics"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/storage"
)

// Experiment is one configured run: a solver, its simulator and metrics.
type Experiment struct {
	cfg       *config.Config
	solver    *physics.Solver
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the configuration and builds the solver and simulator.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	solver, err := r.BuildSolver(e.cfg)
	if err != nil {
		return err
	}

	e.solver = solver
	e.simulator = sim.New(solver)
	for _, m := range r.DefaultMetrics(solver.Params()) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment: %w", dynamo.ErrNotConfigured)
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Solver() *physics.Solver { return e.solver }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Metadata describes the run for the store. Result fields are filled in by
// storage.Store.Save.
func (e *Experiment) Metadata(name string) storage.RunMetadata {
	meta := storage.RunMetadata{
		Name:          name,
		Seed:          e.cfg.Seed,
		Dt:            e.cfg.Dt,
		Steps:         e.cfg.Steps,
		SampleEvery:   e.cfg.SampleEvery,
		Strategy:      e.cfg.Strategy,
		Integrator:    e.cfg.Integrator,
		ParticleCount: e.cfg.Particles.Count,
		Cols:          e.cfg.Container.Cols,
		Rows:          e.cfg.Container.Rows,
	}
	if e.solver != nil {
		meta.ParticleCount = e.solver.Len()
		meta.Bounds = e.solver.Bounds()
		meta.Params = e.solver.GetParams()
	}
	return meta
}
