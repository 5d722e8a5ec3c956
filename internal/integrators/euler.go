package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// SemiImplicitEuler updates velocity first and moves with the new velocity.
type SemiImplicitEuler struct{}

func NewEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "euler" }

func (e *SemiImplicitEuler) Integrate(p *dynamo.Particle, dt float64) {
	p.Velocity = r2.Add(p.Velocity, r2.Scale(dt, p.Force))
	p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
	p.PrevAcceleration = p.Force
}

var (
	_ dynamo.Integrator = (*VelocityVerlet)(nil)
	_ dynamo.Integrator = (*SemiImplicitEuler)(nil)
)
