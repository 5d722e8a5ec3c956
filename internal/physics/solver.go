package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/integrators"
	"github.com/san-kum/sphsim/internal/kernels"
	"github.com/san-kum/sphsim/internal/spatial"
)

// minChunk keeps tiny chunks from being scheduled on separate goroutines.
const minChunk = 64

// Solver advances a set of SPH particles inside a rectangular container.
// It owns its particles and neighbor query exclusively and is not safe for
// concurrent use.
type Solver struct {
	params     Params
	kernel     kernels.Kernel
	container  Container
	query      dynamo.NeighborQuery
	grid       *spatial.Grid
	integrator dynamo.Integrator
	particles  []dynamo.Particle
	configured bool
}

type Option func(*Solver)

// WithNeighborQuery replaces the default spatial hash grid.
func WithNeighborQuery(q dynamo.NeighborQuery) Option {
	return func(s *Solver) { s.query = q }
}

// WithGrid selects the spatial hash grid sized from the solver parameters.
func WithGrid() Option {
	return func(s *Solver) { s.query = nil }
}

// WithBruteForce checks every pair each step.
func WithBruteForce() Option {
	return WithNeighborQuery(spatial.NewBruteForce())
}

func WithIntegrator(i dynamo.Integrator) Option {
	return func(s *Solver) { s.integrator = i }
}

// New validates p and returns a solver with particles laid out.
func New(p Params, opts ...Option) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{integrator: integrators.NewVerlet()}
	for _, opt := range opts {
		opt(s)
	}
	if s.query == nil {
		s.grid = spatial.NewGrid(p.Cols, p.Rows, p.Offset, p.ContainerSize, p.EffectiveHashRadius())
		s.query = s.grid
	}

	if err := s.Configure(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure applies a new parameter set. Particles are regenerated only when
// the geometry changed; otherwise the run continues with the new constants.
func (s *Solver) Configure(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	reset := !s.configured || s.params.geometryChanged(p)

	s.params = p
	s.kernel = kernels.New(p.SmoothingRadius)
	s.container = containerFor(p)
	if s.grid != nil {
		s.grid.Resize(p.Cols, p.Rows, p.Offset, p.ContainerSize)
		s.grid.SetRadius(p.EffectiveHashRadius())
	}
	s.configured = true

	if reset {
		s.Reset()
	}
	return nil
}

// Reset discards every particle and lays out a fresh packed block.
func (s *Solver) Reset() {
	s.particles = layout(s.params)
}

// Step advances the simulation by dt.
func (s *Solver) Step(dt float64) {
	if len(s.particles) == 0 {
		return
	}

	s.query.Rebuild(s.particles)

	// density & pressure must be final for every particle before forces
	s.forEach(s.computeDensity)
	s.forEach(s.computeForce)

	for i := range s.particles {
		p := &s.particles[i]
		s.container.Enforce(p)
		s.integrator.Integrate(p, dt)
	}
}

func (s *Solver) forEach(fn func(i int)) {
	dynamo.ParallelFor(len(s.particles), s.params.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

func (s *Solver) computeDensity(i int) {
	p := &s.particles[i]
	h2 := s.kernel.RadiusSq()

	rho := 0.0
	for j := range s.query.Neighbors(i) {
		if j == i {
			continue
		}
		d2 := r2.Norm2(r2.Sub(p.Position, s.particles[j].Position))
		if d2 > h2 {
			continue
		}
		rho += s.params.Mass * s.kernel.Poly6(d2)
	}

	p.Density = math.Max(rho, s.params.RestDensity)
	p.Pressure = s.params.GasConstant * (p.Density - s.params.RestDensity)
}

func (s *Solver) computeForce(i int) {
	p := &s.particles[i]
	h2 := s.kernel.RadiusSq()
	mass := s.params.Mass

	var force r2.Vec
	for j := range s.query.Neighbors(i) {
		if j == i {
			continue
		}
		q := &s.particles[j]
		r := r2.Sub(p.Position, q.Position)
		d2 := r2.Norm2(r)
		if d2 > h2 {
			continue
		}

		// pressure
		fp := -mass * (p.Pressure + q.Pressure) / (2 * q.Density)
		force = r2.Add(force, r2.Scale(fp, s.kernel.SpikyGradient(r)))

		// viscosity
		fv := s.params.Viscosity * (mass / p.Density) * s.kernel.ViscosityLaplacian(math.Sqrt(d2))
		force = r2.Add(force, r2.Scale(fv, r2.Sub(q.Velocity, p.Velocity)))
	}

	p.Force = r2.Add(force, r2.Scale(s.params.GravityModifier, s.params.Gravity))
}

// Particles returns a snapshot of every particle.
func (s *Solver) Particles() []dynamo.ParticleView {
	views := make([]dynamo.ParticleView, len(s.particles))
	for i := range s.particles {
		views[i] = s.particles[i].View()
	}
	return views
}

// GridCells returns the cell rectangles of the neighbor query, or nil when
// the query has no cells.
func (s *Solver) GridCells() []r2.Box {
	if c, ok := s.query.(interface{ Cells() []r2.Box }); ok {
		return c.Cells()
	}
	return nil
}

func (s *Solver) Params() Params                { return s.params }
func (s *Solver) Len() int                      { return len(s.particles) }
func (s *Solver) Bounds() r2.Box                { return s.container.Bounds() }
func (s *Solver) Integrator() dynamo.Integrator { return s.integrator }

// Validate reports the first particle with a non-finite component.
func (s *Solver) Validate() error {
	for i := range s.particles {
		if !s.particles[i].IsValid() {
			return fmt.Errorf("particle %d: %w", i, dynamo.ErrInvalidState)
		}
	}
	return nil
}

func (s *Solver) GetParams() map[string]float64 {
	return s.params.Values()
}

// SetParam changes one runtime parameter through Configure, so geometry
// parameters refit the grid and reset the particles, and invalid values are
// rejected.
func (s *Solver) SetParam(name string, v float64) error {
	p := s.params
	if err := p.Set(name, v); err != nil {
		return err
	}
	return s.Configure(p)
}

var _ dynamo.Configurable = (*Solver)(nil)
