package dynamo

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is the solver-owned record of one fluid sample. Its identity is
// its index in the store.
type Particle struct {
	Position         r2.Vec
	Velocity         r2.Vec
	PrevAcceleration r2.Vec
	Force            r2.Vec
	Density          float64
	Pressure         float64
}

// View returns the read-only projection of p.
func (p *Particle) View() ParticleView {
	return ParticleView{
		Position: p.Position,
		Velocity: p.Velocity,
		Density:  p.Density,
		Pressure: p.Pressure,
	}
}

// IsValid reports whether every component of p is finite.
func (p *Particle) IsValid() bool {
	for _, v := range [...]float64{
		p.Position.X, p.Position.Y,
		p.Velocity.X, p.Velocity.Y,
		p.Force.X, p.Force.Y,
		p.Density, p.Pressure,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ParticleView is the snapshot consumers read after each step.
type ParticleView struct {
	Position r2.Vec  `json:"position"`
	Velocity r2.Vec  `json:"velocity"`
	Density  float64 `json:"density"`
	Pressure float64 `json:"pressure"`
}

// Speed returns the velocity magnitude.
func (v ParticleView) Speed() float64 {
	return r2.Norm(v.Velocity)
}

// NeighborQuery produces neighbor candidates for particles of one step.
// Rebuild is called once per step before any query; Neighbors yields each
// candidate index at most once and may include i itself. Candidates are not
// filtered by exact distance.
type NeighborQuery interface {
	Rebuild(particles []Particle)
	Neighbors(i int) iter.Seq[int]
}

// Integrator advances one particle by dt from its accumulated force.
type Integrator interface {
	Name() string
	Integrate(p *Particle, dt float64)
}

type Metric interface {
	Name() string
	Observe(particles []ParticleView, t float64)
	// Current returns the most recent sample, Value the run aggregate.
	Current() float64
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(particles []ParticleView, step int, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
